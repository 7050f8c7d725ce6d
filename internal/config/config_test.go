package config_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/controlfin/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("APP_MODE", "local")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Control Financiero", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, config.ModeLocal, cfg.App.Mode)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "controlfin.log", cfg.Log.File)

	driver, err := cfg.Driver()
	require.NoError(t, err)
	assert.Equal(t, config.DriverREST, driver)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "MissingURL", env: map[string]string{"SUPABASE_ANON_KEY": "anon"}},
		{name: "MissingKey", env: map[string]string{"SUPABASE_URL": "https://project.supabase.co"}},
		{name: "BlankKey", env: map[string]string{"SUPABASE_URL": "https://project.supabase.co", "SUPABASE_ANON_KEY": "  "}},
		{name: "UnknownMode", env: map[string]string{"SUPABASE_URL": "https://x.co", "SUPABASE_ANON_KEY": "k", "APP_MODE": "offline"}},
		{name: "UnknownScheme", env: map[string]string{"SUPABASE_URL": "ftp://x.co", "SUPABASE_ANON_KEY": "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUPABASE_URL", "")
			t.Setenv("SUPABASE_ANON_KEY", "")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestDriver(t *testing.T) {
	var cfg config.Config

	cfg.Backend.URL = "postgresql://postgres@db.example.com:5432/postgres"

	driver, err := cfg.Driver()
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, driver)
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

func TestInspectKey(t *testing.T) {
	now := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Opaque", func(t *testing.T) {
		info, err := config.InspectKey("sb_publishable_abc", now)
		require.NoError(t, err)
		assert.False(t, info.JWT)
	})

	t.Run("Valid", func(t *testing.T) {
		key := signed(t, jwt.MapClaims{"role": "anon", "exp": now.Add(time.Hour).Unix()})

		info, err := config.InspectKey(key, now)
		require.NoError(t, err)
		assert.True(t, info.JWT)
		assert.Equal(t, "anon", info.Role)
		require.NotNil(t, info.ExpiresAt)
		assert.True(t, info.ExpiresAt.After(now))
	})

	t.Run("NoExpiry", func(t *testing.T) {
		info, err := config.InspectKey(signed(t, jwt.MapClaims{"role": "service_role"}), now)
		require.NoError(t, err)
		assert.Nil(t, info.ExpiresAt)
	})

	t.Run("Expired", func(t *testing.T) {
		key := signed(t, jwt.MapClaims{"role": "anon", "exp": now.Add(-time.Hour).Unix()})

		_, err := config.InspectKey(key, now)
		assert.ErrorContains(t, err, "expired")
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := config.InspectKey("not.a.token", now)
		assert.ErrorContains(t, err, "malformed")
	})
}
