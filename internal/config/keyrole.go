package config

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Supabase key roles.
const (
	RoleServiceRole = "service_role"
	RoleAnon        = "anon"
	RoleUnknown     = "unknown"
)

// KeyRole reads the "role" claim of a Supabase API key without verifying the
// signature. Keys that are not JWTs (sb_secret_/sb_publishable_) are
// classified by prefix.
func KeyRole(key string) string {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return RoleUnknown
	case strings.HasPrefix(key, "sb_secret_"):
		return RoleServiceRole
	case strings.HasPrefix(key, "sb_publishable_"):
		return RoleAnon
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return RoleUnknown
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		return role
	}
	return RoleUnknown
}

// UsingRestrictedKey reports whether requests will go out with a key that
// lacks admin privileges. Admin identity calls fail with it.
func (c *Config) UsingRestrictedKey() bool {
	return c.Supabase.ServiceRoleKey == "" && c.Supabase.AnonKey != ""
}
