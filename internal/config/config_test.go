package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "SERVER_PORT", "DB_DRIVER", "DATABASE_DSN", "MYSQL_DSN", "RESET_DB", "REDIS_DB", "JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "tcp(localhost:3306)")
	assert.False(t, cfg.ResetDB)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("RESET_DB", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseDSN)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoad_MySQLDSNFallback(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("MYSQL_DSN", "root@tcp(db:3306)/app")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "root@tcp(db:3306)/app", cfg.DatabaseDSN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "unsupported DB_DRIVER"},
		{name: "empty port", mutate: func(c *Config) { c.ServerPort = "" }, wantErr: "SERVER_PORT"},
		{
			name:    "default secret in production",
			mutate:  func(c *Config) { c.AppEnv = "production"; c.JWTSecret = defaultJWTSecret },
			wantErr: "JWT_SECRET must be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{AppEnv: "development", ServerPort: "8080", DBDriver: "postgres", JWTSecret: "x"}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
