// Package mail defines the outbound email contract shared by the Resend API
// client and the SMTP transport.
package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Attachment is a file sent alongside the HTML body.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound email.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// SendResult identifies the accepted message at the provider.
type SendResult struct {
	ID string `json:"id"`
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, m Message) (*SendResult, error)
}

// Lister returns recently sent emails as the provider reports them.
type Lister interface {
	ListEmails(ctx context.Context, limit int) ([]json.RawMessage, error)
}

// ErrListUnsupported means the configured transport keeps no send log to list.
var ErrListUnsupported = errors.New("mail: listing sent emails is not supported by this transport")

// Error is a rejection returned by the email provider.
type Error struct {
	Status  int
	Name    string
	Message string
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mail: %s (%s, status %d)", e.Message, e.Name, e.Status)
	}
	return fmt.Sprintf("mail: %s (status %d)", e.Message, e.Status)
}

// ErrorMessage returns the provider message for any error, unwrapping *Error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var me *Error
	if errors.As(err, &me) && me.Message != "" {
		return me.Message
	}
	return err.Error()
}
