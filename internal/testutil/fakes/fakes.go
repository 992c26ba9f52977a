// Package fakes has in-memory stand-ins for the identity service, the store
// and the email transports. All fakes can share one Calls log so tests can
// assert cross-backend ordering.
package fakes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/mail"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Calls is an ordered, concurrency-safe log of "backend.op:arg" entries.
type Calls struct {
	mu  sync.Mutex
	log []string
}

func (c *Calls) add(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = append(c.log, fmt.Sprintf(format, args...))
}

// All returns a copy of the log.
func (c *Calls) All() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.log...)
}

// Count returns how many entries equal call.
func (c *Calls) Count(call string) int {
	n := 0
	for _, s := range c.All() {
		if s == call {
			n++
		}
	}
	return n
}

// Identity fakes identity.Service.
type Identity struct {
	Calls     *Calls
	NextID    string
	CreateErr error
	DeleteErr error

	Created []identity.CreateParams
}

func (f *Identity) CreateUser(_ context.Context, p identity.CreateParams) (*identity.User, error) {
	f.Calls.add("identity.create:%s", p.Email)
	f.Created = append(f.Created, p)
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	id := f.NextID
	if id == "" {
		id = "00000000-0000-4000-8000-000000000001"
	}
	return &identity.User{ID: id, Email: p.Email}, nil
}

func (f *Identity) DeleteUser(_ context.Context, id string) error {
	f.Calls.add("identity.delete:%s", id)
	return f.DeleteErr
}

// Store fakes store.Store. Profiles are keyed by email.
type Store struct {
	Calls *Calls

	mu       sync.Mutex
	Profiles map[string]*store.Profile
	Updates  []StatusUpdateCall
	History  []store.HistoryEntry

	InsertErr  error
	DeleteErr  error
	FindErr    error
	UpdateErr  error
	HistoryErr error
}

type StatusUpdateCall struct {
	ID     string
	Update store.StatusUpdate
}

func NewStore(calls *Calls) *Store {
	return &Store{Calls: calls, Profiles: map[string]*store.Profile{}}
}

func (f *Store) InsertProfile(_ context.Context, p store.NewProfile) error {
	f.Calls.add("store.insert:%s", p.ID)
	if f.InsertErr != nil {
		return f.InsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Profiles[p.Email] = &store.Profile{ID: p.ID, Email: p.Email, Approved: p.Approved, IsAdmin: p.IsAdmin}
	return nil
}

func (f *Store) DeleteProfile(_ context.Context, id string) error {
	f.Calls.add("store.delete:%s", id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, p := range f.Profiles {
		if p.ID == id {
			delete(f.Profiles, k)
		}
	}
	return nil
}

func (f *Store) FindByEmail(_ context.Context, email string) (*store.Profile, error) {
	f.Calls.add("store.find:%s", email)
	if f.FindErr != nil {
		return nil, f.FindErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.Profiles[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *Store) UpdateEmailStatus(_ context.Context, id string, u store.StatusUpdate) error {
	f.Calls.add("store.update:%s", id)
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updates = append(f.Updates, StatusUpdateCall{ID: id, Update: u})
	return nil
}

func (f *Store) InsertHistory(_ context.Context, e store.HistoryEntry) error {
	f.Calls.add("store.history:%s", e.UserID)
	if f.HistoryErr != nil {
		return f.HistoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.History = append(f.History, e)
	return nil
}

func (f *Store) Close() error { return nil }

// Mailer fakes mail.Sender and mail.Lister.
type Mailer struct {
	Calls   *Calls
	SendErr error
	ListErr error
	Listed  []json.RawMessage

	Sent []mail.Message
}

func (f *Mailer) Send(_ context.Context, m mail.Message) (*mail.SendResult, error) {
	f.Calls.add("mail.send:%s", m.Subject)
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	f.Sent = append(f.Sent, m)
	return &mail.SendResult{ID: fmt.Sprintf("email-%d", len(f.Sent))}, nil
}

func (f *Mailer) ListEmails(_ context.Context, limit int) ([]json.RawMessage, error) {
	f.Calls.add("mail.list:%d", limit)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Listed, nil
}
