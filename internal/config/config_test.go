package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "bcrypt", cfg.PasswordHasher)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/tasks.db")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("LOG_CONSOLE_PRETTY", "true")
	t.Setenv("PASSWORD_HASHER", "argon2id")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.LogConsolePretty)
	assert.Equal(t, "argon2id", cfg.PasswordHasher)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DBDriver:       "postgres",
			HTTPAddr:       ":8080",
			GinMode:        "debug",
			SessionSecret:  "secret",
			SessionTTL:     time.Hour,
			SessionStore:   "cookie",
			PasswordHasher: "bcrypt",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, ErrUnknownDBDriver},
		{"unknown store", func(c *Config) { c.SessionStore = "memcached" }, ErrUnknownSessionStore},
		{"unknown hasher", func(c *Config) { c.PasswordHasher = "md5" }, ErrUnknownHasher},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, ErrInvalidSessionTTL},
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }, ErrEmptyHTTPAddr},
		{"default secret in release", func(c *Config) {
			c.GinMode = "release"
			c.SessionSecret = defaultSessionSecret
		}, ErrInsecureSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
