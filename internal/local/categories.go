package local

import (
	"errors"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
)

// ErrNoCategory is returned for a category index outside the list.
var ErrNoCategory = errors.New("category index out of range")

// Categories is an ordered list of category names addressed by position.
// Names are unique when added or renamed. It is not safe for concurrent use.
type Categories struct {
	names []string
}

func NewCategories(names []string) *Categories {
	return &Categories{names: slices.Clone(names)}
}

// Names returns a copy of the list.
func (c *Categories) Names() []string {
	return slices.Clone(c.names)
}

func (c *Categories) Len() int { return len(c.names) }

// Reset replaces the whole list.
func (c *Categories) Reset(names []string) {
	c.names = slices.Clone(names)
}

func (c *Categories) Add(name string) (string, error) {
	name, err := c.check(name, -1)
	if err != nil {
		return "", err
	}

	c.names = append(c.names, name)

	return name, nil
}

func (c *Categories) Rename(index int, name string) (string, error) {
	if index < 0 || index >= len(c.names) {
		return "", ErrNoCategory
	}

	name, err := c.check(name, index)
	if err != nil {
		return "", err
	}

	c.names[index] = name

	return name, nil
}

// Remove deletes the category at index and returns its name.
func (c *Categories) Remove(index int) (string, error) {
	if index < 0 || index >= len(c.names) {
		return "", ErrNoCategory
	}

	name := c.names[index]
	c.names = slices.Delete(c.names, index, index+1)

	return name, nil
}

// check trims name and rejects it when empty or already used by a
// category other than the one at self.
func (c *Categories) check(name string, self int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", finance.NewValidationError("nombre", `El campo "Nombre" es obligatorio`)
	}

	for i, existing := range c.names {
		if i != self && existing == name {
			return "", finance.NewValidationError("nombre", "La categoría ya existe")
		}
	}

	return name, nil
}
