package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "parkus_db", cfg.DBName)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.False(t, cfg.Production())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5433, cfg.DBPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.True(t, cfg.Production())
}
