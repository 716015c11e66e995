package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		CookieSameSite: "lax",
		SessionTTL:     24 * time.Hour,
		ResetTokenTTL:  time.Hour,
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts defaults", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, validConfig().Validate())
	})

	t.Run("rejects unknown samesite", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CookieSameSite = "sometimes"
		assert.Error(t, cfg.Validate())
	})

	t.Run("samesite none requires secure", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CookieSameSite = "none"
		assert.Error(t, cfg.Validate())

		cfg.CookieSecure = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive session ttl", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.SessionTTL = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive reset token ttl", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ResetTokenTTL = -time.Minute
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects api key without endpoint", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.DVLAAPIKey = "secret"
		assert.Error(t, cfg.Validate())

		cfg.DVLAEndpoint = "https://lookup.example.com/v1"
		assert.NoError(t, cfg.Validate())
	})
}

func TestSameSite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want http.SameSite
	}{
		{"lax", http.SameSiteLaxMode},
		{"strict", http.SameSiteStrictMode},
		{"none", http.SameSiteNoneMode},
		{"", http.SameSiteLaxMode},
	}
	for _, tt := range tests {
		cfg := &Config{CookieSameSite: tt.raw}
		assert.Equal(t, tt.want, cfg.SameSite(), "samesite %q", tt.raw)
	}
}

func TestParseOrigins(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseOrigins(""))
	assert.Equal(t,
		[]string{"https://app.example.com", "http://localhost:3000"},
		parseOrigins(" https://app.example.com , http://localhost:3000 "))
	assert.Equal(t, []string{"https://app.example.com"}, parseOrigins("https://app.example.com,,"))
}
