package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "SERVER_ADDR", "SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY",
		"SUPABASE_ANON_KEY", "STORE_DRIVER", "DATABASE_URL", "EMAIL_TRANSPORT", "RESEND_API_KEY",
		"RESEND_BASE_URL", "EMAIL_FROM", "ADMIN_NOTIFY_EMAIL", "SMTP_HOST", "SMTP_PORT", "SMTP_USER",
		"SMTP_PASS", "SMTP_TLS", "DEDUPE_DRIVER", "WEBHOOK_DEDUPE_TTL", "REDIS_ADDR", "REDIS_PASSWORD",
		"REDIS_DB", "HTTP_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, StoreREST, c.Store.Driver)
	assert.Equal(t, TransportResend, c.Email.Transport)
	assert.Equal(t, "https://api.resend.com", c.Email.ResendBaseURL)
	assert.Equal(t, DedupeMemory, c.Webhook.Dedupe)
	assert.Equal(t, 24*time.Hour, c.Webhook.DedupeTTL)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.False(t, c.HasSupabase())
	assert.ElementsMatch(t, []string{"SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY", "RESEND_API_KEY", "ADMIN_NOTIFY_EMAIL"}, c.Missing())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
supabase:
  url: https://file.supabase.co
  anon_key: anon-from-file
email:
  from: file@example.com
http_timeout: 5s
`), 0o600))

	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-from-env")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", c.Supabase.URL)
	assert.Equal(t, "service-from-env", c.SupabaseKey(), "privileged key wins over the restricted one")
	assert.Equal(t, "file@example.com", c.Email.From)
	assert.Equal(t, 5*time.Second, c.HTTPTimeout)
	assert.True(t, c.HasSupabase())
	assert.False(t, c.UsingRestrictedKey())
}

func TestSupabaseKey_FallsBackToAnon(t *testing.T) {
	var c Config
	c.Supabase.AnonKey = "anon"
	assert.Equal(t, "anon", c.SupabaseKey())
	assert.True(t, c.UsingRestrictedKey())
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]map[string]string{
		"bad url":              {"SUPABASE_URL": "not a url"},
		"unknown store":        {"STORE_DRIVER": "mongo"},
		"postgres without dsn": {"STORE_DRIVER": "postgres"},
		"unknown transport":    {"EMAIL_TRANSPORT": "pigeon"},
		"smtp without host":    {"EMAIL_TRANSPORT": "smtp"},
		"redis without addr":   {"DEDUPE_DRIVER": "redis"},
		"bad tls":              {"SMTP_TLS": "maybe"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestKeyRole(t *testing.T) {
	sign := func(role string) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role, "iss": "supabase"})
		s, err := tok.SignedString([]byte("super-secret-jwt-token-with-at-least-32-characters"))
		require.NoError(t, err)
		return s
	}

	assert.Equal(t, RoleServiceRole, KeyRole(sign("service_role")))
	assert.Equal(t, RoleAnon, KeyRole(sign("anon")))
	assert.Equal(t, RoleServiceRole, KeyRole("sb_secret_abc"))
	assert.Equal(t, RoleAnon, KeyRole("sb_publishable_abc"))
	assert.Equal(t, RoleUnknown, KeyRole("garbage"))
	assert.Equal(t, RoleUnknown, KeyRole(""))
}
