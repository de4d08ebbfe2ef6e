package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Env:            "development",
		Port:           "8080",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		StorageBackend: StorageBackendDatabase,
		DBDriver:       DBDriverPostgres,
		DBPassword:     "secure-password",
		DBSSLMode:      "require",
		RedisURL:       "redis://localhost:6379",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid development config", func(c *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Missing JWT secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"Unknown storage backend", func(c *Config) { c.StorageBackend = "cassandra" }, true},
		{"Unknown DB driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"Memory backend in development", func(c *Config) { c.StorageBackend = StorageBackendMemory }, false},
		{"Mixed-case backend", func(c *Config) { c.StorageBackend = "Memory" }, false},
		{"SQLite driver", func(c *Config) { c.DBDriver = DBDriverSQLite }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
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

func TestConfig_ValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"Valid production config", func(c *Config) {}, false},
		{"Default JWT secret", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }, true},
		{"Short JWT secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"Default DB password", func(c *Config) { c.DBPassword = "password" }, true},
		{"Empty DB password", func(c *Config) { c.DBPassword = "" }, true},
		{"Memory backend rejected", func(c *Config) { c.StorageBackend = StorageBackendMemory }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			c.Env = "production"
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

func TestConfig_IsMemoryBackend(t *testing.T) {
	c := validTestConfig()
	assert.False(t, c.IsMemoryBackend())

	c.StorageBackend = "MEMORY"
	assert.True(t, c.IsMemoryBackend())
}
