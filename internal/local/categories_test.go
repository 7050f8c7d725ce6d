package local_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
)

func TestCategories_Add(t *testing.T) {
	c := local.NewCategories([]string{"Alimentación", "Transporte"})

	name, err := c.Add("  Mascotas ")
	require.NoError(t, err)
	assert.Equal(t, "Mascotas", name)
	assert.Equal(t, []string{"Alimentación", "Transporte", "Mascotas"}, c.Names())

	_, err = c.Add("Transporte")
	assert.True(t, finance.IsValidation(err))

	_, err = c.Add("   ")
	assert.True(t, finance.IsValidation(err))

	assert.Equal(t, 3, c.Len())

	_, err = c.Add("transporte")
	require.NoError(t, err, "names are compared exactly")
	assert.Equal(t, 4, c.Len())
}

func TestCategories_Rename(t *testing.T) {
	c := local.NewCategories([]string{"Alimentación", "Transporte"})

	_, err := c.Rename(1, "Transporte")
	require.NoError(t, err, "renaming to its own name is allowed")

	_, err = c.Rename(1, "Alimentación")
	assert.True(t, finance.IsValidation(err))

	name, err := c.Rename(0, "Comida")
	require.NoError(t, err)
	assert.Equal(t, "Comida", name)
	assert.Equal(t, []string{"Comida", "Transporte"}, c.Names())

	_, err = c.Rename(2, "Otros")
	assert.ErrorIs(t, err, local.ErrNoCategory)
}

func TestCategories_Remove(t *testing.T) {
	c := local.NewCategories([]string{"A", "B", "C"})

	name, err := c.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, "B", name)
	assert.Equal(t, []string{"A", "C"}, c.Names())

	_, err = c.Remove(-1)
	assert.ErrorIs(t, err, local.ErrNoCategory)

	_, err = c.Remove(2)
	assert.ErrorIs(t, err, local.ErrNoCategory)
}

func TestCategories_NamesIsCopy(t *testing.T) {
	c := local.NewCategories([]string{"A"})

	names := c.Names()
	names[0] = "Z"

	assert.Equal(t, []string{"A"}, c.Names())
}
