package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPlatformDefaults_DatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/db")

	cfg := &Config{Addr: "0.0.0.0:8080"}
	cfg.applyPlatformDefaults()
	assert.Equal(t, "postgres://platform/db", cfg.DatabaseURL)
}

func TestApplyPlatformDefaults_ExplicitURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/db")

	cfg := &Config{Addr: "0.0.0.0:8080", DatabaseURL: "postgres://explicit/db"}
	cfg.applyPlatformDefaults()
	assert.Equal(t, "postgres://explicit/db", cfg.DatabaseURL)
}

func TestApplyPlatformDefaults_Port(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg := &Config{Addr: "0.0.0.0:8080"}
	cfg.applyPlatformDefaults()
	assert.Equal(t, "0.0.0.0:9999", cfg.Addr)
}

func TestApplyPlatformDefaults_PortIgnoredWhenAddrCustom(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg := &Config{Addr: "127.0.0.1:3000"}
	cfg.applyPlatformDefaults()
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr)
}

func TestApplyPlatformDefaults_APIKey(t *testing.T) {
	t.Setenv("API_KEY", "platform-key")

	cfg := &Config{Addr: "0.0.0.0:8080"}
	cfg.applyPlatformDefaults()
	assert.Equal(t, "platform-key", cfg.APIKey)
}
