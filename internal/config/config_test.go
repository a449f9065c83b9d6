package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:         "8375",
		Env:          "development",
		DBDriver:     DriverPostgres,
		DBPassword:   "password",
		DBSSLMode:    "disable",
		DBSchemaMode: "hybrid",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"sqlite without path", func(c *Config) { c.DBDriver = DriverSQLite; c.DBSQLitePath = "" }, true},
		{"sqlite with path", func(c *Config) { c.DBDriver = DriverSQLite; c.DBSQLitePath = "blog.db" }, false},
		{"unknown schema mode", func(c *Config) { c.DBSchemaMode = "yolo" }, true},
		{"sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"production with default password", func(c *Config) { c.Env = "production" }, true},
		{"production with strong password", func(c *Config) { c.Env = "production"; c.DBPassword = "s3cure-and-long" }, false},
		{"production on sqlite ignores password", func(c *Config) {
			c.Env = "prod"
			c.DBDriver = DriverSQLite
			c.DBSQLitePath = "blog.db"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()

	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", "  SQLite ")
	t.Setenv("DB_SQLITE_PATH", "override.db")
	t.Setenv("PORT", "9999")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "override.db", c.DBSQLitePath)
	assert.Equal(t, "9999", c.Port)
	assert.Equal(t, "hybrid", c.DBSchemaMode)
}
