// Package identity describes the external system of record for credentials
// and verified-email status.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// User is the subset of the identity record this service reads back.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// CreateParams describes an administrative identity creation.
type CreateParams struct {
	Email        string
	Password     string
	EmailConfirm bool
	Metadata     map[string]any
}

// Service is the administrative identity API.
type Service interface {
	CreateUser(ctx context.Context, p CreateParams) (*User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Error is a rejection returned by the identity service.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("identity: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("identity: %s (status %d)", e.Message, e.Status)
}

// Message returns the upstream message for any error, unwrapping *Error.
func Message(err error) string {
	var ie *Error
	if errors.As(err, &ie) && ie.Message != "" {
		return ie.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
