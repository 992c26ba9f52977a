package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreREST     = "rest"
	StorePostgres = "postgres"
)

// Email transports.
const (
	TransportResend = "resend"
	TransportSMTP   = "smtp"
)

// Dedupe drivers.
const (
	DedupeMemory = "memory"
	DedupeRedis  = "redis"
)

type Config struct {
	App struct {
		// dev | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Supabase holds the identity service and the PostgREST backing store.
	Supabase struct {
		URL            string `yaml:"url"`
		ServiceRoleKey string `yaml:"service_role_key"`
		AnonKey        string `yaml:"anon_key"`
	} `yaml:"supabase"`

	Store struct {
		// rest | postgres
		Driver      string `yaml:"driver"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"store"`

	Email struct {
		// resend | smtp
		Transport     string `yaml:"transport"`
		ResendAPIKey  string `yaml:"resend_api_key"`
		ResendBaseURL string `yaml:"resend_base_url"`
		From          string `yaml:"from"`
		AdminNotify   string `yaml:"admin_notify"`
		SMTP          struct {
			Host string `yaml:"host"`
			Port int    `yaml:"port"`
			User string `yaml:"user"`
			Pass string `yaml:"pass"`
			// auto | starttls | ssl | none
			TLS string `yaml:"tls"`
		} `yaml:"smtp"`
	} `yaml:"email"`

	Webhook struct {
		// memory | redis
		Dedupe    string        `yaml:"dedupe"`
		DedupeTTL time.Duration `yaml:"dedupe_ttl"`
		Redis     struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"webhook"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Load reads the optional YAML file at path, applies env overrides and
// defaults, then validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// FromEnv is Load with the path taken from CONFIG_PATH.
func FromEnv() (*Config, error) {
	return Load(os.Getenv("CONFIG_PATH"))
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreREST
	}
	if c.Email.Transport == "" {
		c.Email.Transport = TransportResend
	}
	if c.Email.ResendBaseURL == "" {
		c.Email.ResendBaseURL = "https://api.resend.com"
	}
	if c.Email.From == "" {
		c.Email.From = "onboarding@resend.dev"
	}
	if c.Email.SMTP.Port == 0 {
		c.Email.SMTP.Port = 587
	}
	if c.Email.SMTP.TLS == "" {
		c.Email.SMTP.TLS = "auto"
	}
	if c.Webhook.Dedupe == "" {
		c.Webhook.Dedupe = DedupeMemory
	}
	if c.Webhook.DedupeTTL == 0 {
		c.Webhook.DedupeTTL = 24 * time.Hour
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 15 * time.Second
	}
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	if v, ok := getEnvStr("SUPABASE_URL"); ok {
		c.Supabase.URL = v
	}
	if v, ok := getEnvStr("SUPABASE_SERVICE_ROLE_KEY"); ok {
		c.Supabase.ServiceRoleKey = v
	}
	if v, ok := getEnvStr("SUPABASE_ANON_KEY"); ok {
		c.Supabase.AnonKey = v
	}

	if v, ok := getEnvStr("STORE_DRIVER"); ok {
		c.Store.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Store.DatabaseURL = v
	}

	if v, ok := getEnvStr("EMAIL_TRANSPORT"); ok {
		c.Email.Transport = strings.ToLower(v)
	}
	if v, ok := getEnvStr("RESEND_API_KEY"); ok {
		c.Email.ResendAPIKey = v
	}
	if v, ok := getEnvStr("RESEND_BASE_URL"); ok {
		c.Email.ResendBaseURL = v
	}
	if v, ok := getEnvStr("EMAIL_FROM"); ok {
		c.Email.From = v
	}
	if v, ok := getEnvStr("ADMIN_NOTIFY_EMAIL"); ok {
		c.Email.AdminNotify = v
	}
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.Email.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.Email.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USER"); ok {
		c.Email.SMTP.User = v
	}
	if v, ok := getEnvStr("SMTP_PASS"); ok {
		c.Email.SMTP.Pass = v
	}
	if v, ok := getEnvStr("SMTP_TLS"); ok {
		c.Email.SMTP.TLS = strings.ToLower(v)
	}

	if v, ok := getEnvStr("DEDUPE_DRIVER"); ok {
		c.Webhook.Dedupe = strings.ToLower(v)
	}
	if v, ok := getEnvDuration("WEBHOOK_DEDUPE_TTL"); ok {
		c.Webhook.DedupeTTL = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Webhook.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Webhook.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Webhook.Redis.DB = v
	}

	if v, ok := getEnvDuration("HTTP_TIMEOUT"); ok {
		c.HTTPTimeout = v
	}
}

// Validate rejects malformed values. Missing credentials are not an error
// here; see Missing.
func (c *Config) Validate() error {
	if c.Supabase.URL != "" {
		u, err := url.Parse(c.Supabase.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config: invalid SUPABASE_URL %q", c.Supabase.URL)
		}
	}
	switch c.Store.Driver {
	case StoreREST:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config: store driver %q requires DATABASE_URL", StorePostgres)
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	switch c.Email.Transport {
	case TransportResend, TransportSMTP:
	default:
		return fmt.Errorf("config: unknown email transport %q", c.Email.Transport)
	}
	if c.Email.Transport == TransportSMTP && c.Email.SMTP.Host == "" {
		return fmt.Errorf("config: email transport %q requires SMTP_HOST", TransportSMTP)
	}
	switch c.Email.SMTP.TLS {
	case "auto", "starttls", "ssl", "none":
	default:
		return fmt.Errorf("config: unknown SMTP_TLS mode %q", c.Email.SMTP.TLS)
	}
	switch c.Webhook.Dedupe {
	case DedupeMemory:
	case DedupeRedis:
		if c.Webhook.Redis.Addr == "" {
			return fmt.Errorf("config: dedupe driver %q requires REDIS_ADDR", DedupeRedis)
		}
	default:
		return fmt.Errorf("config: unknown dedupe driver %q", c.Webhook.Dedupe)
	}
	if c.Webhook.DedupeTTL < 0 || c.HTTPTimeout < 0 {
		return fmt.Errorf("config: durations must not be negative")
	}
	return nil
}

// SupabaseKey returns the privileged key when set, else the restricted one.
func (c *Config) SupabaseKey() string {
	if c.Supabase.ServiceRoleKey != "" {
		return c.Supabase.ServiceRoleKey
	}
	return c.Supabase.AnonKey
}

// HasSupabase reports whether both the URL and a key are available.
func (c *Config) HasSupabase() bool {
	return c.Supabase.URL != "" && c.SupabaseKey() != ""
}

// HasEmailAPI reports whether the Resend API (send + list) is usable.
func (c *Config) HasEmailAPI() bool {
	return c.Email.ResendAPIKey != ""
}

// Missing lists the unset credentials, by env var name.
func (c *Config) Missing() []string {
	var out []string
	if c.Supabase.URL == "" {
		out = append(out, "SUPABASE_URL")
	}
	if c.SupabaseKey() == "" {
		out = append(out, "SUPABASE_SERVICE_ROLE_KEY")
	}
	if c.Email.ResendAPIKey == "" {
		out = append(out, "RESEND_API_KEY")
	}
	if c.Email.AdminNotify == "" {
		out = append(out, "ADMIN_NOTIFY_EMAIL")
	}
	return out
}

// ---- env helpers ----

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvDuration(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, true
		}
	}
	return 0, false
}
