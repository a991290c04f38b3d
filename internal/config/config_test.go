package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://kelas@localhost/kelas")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_EXPIRY_HOURS", "")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.SessionCookieSecure)
	assert.Equal(t, "kelas_session", cfg.SessionCookieName)
	assert.Equal(t, 5*time.Minute, cfg.ClassCacheTTL)
	require.NoError(t, cfg.Validate())
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := &Config{}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"http://a.test", "http://b.test"},
		parseOrigins(" http://a.test, ,http://b.test "),
	)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "session:abc", CacheKey.SessionKey("abc"))
	assert.Equal(t, "classes:all", CacheKey.ClassListKey())
	assert.Equal(t, "class:7:activity", CacheKey.ClassActivityChannel(7))
}
