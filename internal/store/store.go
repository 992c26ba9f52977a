// Package store describes the external relational store holding the
// application-level user rows and the email history.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EmailStatus is the last delivery-lifecycle state seen for a user.
type EmailStatus string

const (
	EmailSent      EmailStatus = "sent"
	EmailDelivered EmailStatus = "delivered"
	EmailOpened    EmailStatus = "opened"
	EmailClicked   EmailStatus = "clicked"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("store: not found")

// Profile is a users row.
type Profile struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	Approved          bool         `json:"approved"`
	IsAdmin           bool         `json:"is_admin"`
	LastEmailStatus   *EmailStatus `json:"last_email_status,omitempty"`
	LastEmailOpenedAt *time.Time   `json:"last_email_opened_at,omitempty"`
}

// NewProfile is the row inserted when a user is provisioned.
type NewProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Approved bool   `json:"approved"`
	IsAdmin  bool   `json:"is_admin"`
}

// StatusUpdate is the projection of one webhook event onto a users row.
// A nil OpenedAt leaves last_email_opened_at untouched.
type StatusUpdate struct {
	Status   EmailStatus `json:"last_email_status"`
	OpenedAt *time.Time  `json:"last_email_opened_at,omitempty"`
}

// HistoryEntry is an email_history row. ChangesSnapshot is stored as given,
// an empty object when nil.
type HistoryEntry struct {
	UserID          string         `json:"user_id"`
	SentBy          *string        `json:"sent_by"`
	Message         string         `json:"message"`
	Subject         string         `json:"subject"`
	ChangesSnapshot map[string]any `json:"changes_snapshot"`
	Success         bool           `json:"success"`
}

// Users is the users table.
type Users interface {
	InsertProfile(ctx context.Context, p NewProfile) error
	DeleteProfile(ctx context.Context, id string) error
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	UpdateEmailStatus(ctx context.Context, id string, u StatusUpdate) error
}

// History is the email_history table.
type History interface {
	InsertHistory(ctx context.Context, e HistoryEntry) error
}

// Store is what an adapter provides.
type Store interface {
	Users
	History
	Close() error
}

// Error is a rejection returned by the store.
type Error struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store: %s (code %s)", e.Message, e.Code)
	}
	return "store: " + e.Message
}

// Message returns the upstream message for any error, unwrapping *Error.
func Message(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// EmptySnapshot normalizes a nil snapshot to an empty object.
func EmptySnapshot(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
