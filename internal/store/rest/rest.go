// Package rest implements store.Store over the Supabase PostgREST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/store"
)

const (
	usersTable   = "users"
	historyTable = "email_history"

	profileColumns = "id,email,approved,is_admin,last_email_status,last_email_opened_at"
)

// Store talks to {baseURL}/rest/v1.
type Store struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a PostgREST-backed store.
func New(baseURL, apiKey string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/") + "/rest/v1",
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ store.Store = (*Store)(nil)

func (s *Store) InsertProfile(ctx context.Context, p store.NewProfile) error {
	return s.do(ctx, "insert_profile", http.MethodPost, usersTable, nil, p, nil)
}

func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return s.do(ctx, "delete_profile", http.MethodDelete, usersTable, q, nil, nil)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*store.Profile, error) {
	q := url.Values{}
	q.Set("select", profileColumns)
	q.Set("email", "eq."+email)
	q.Set("limit", "1")

	var rows []store.Profile
	if err := s.do(ctx, "find_by_email", http.MethodGet, usersTable, q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return &rows[0], nil
}

func (s *Store) UpdateEmailStatus(ctx context.Context, id string, u store.StatusUpdate) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	body := map[string]any{"last_email_status": u.Status}
	if u.OpenedAt != nil {
		body["last_email_opened_at"] = u.OpenedAt.UTC().Format(time.RFC3339Nano)
	}
	return s.do(ctx, "update_email_status", http.MethodPatch, usersTable, q, body, nil)
}

func (s *Store) InsertHistory(ctx context.Context, e store.HistoryEntry) error {
	e.ChangesSnapshot = store.EmptySnapshot(e.ChangesSnapshot)
	return s.do(ctx, "insert_history", http.MethodPost, historyTable, nil, e, nil)
}

// Close is a no-op; the HTTP client holds no resources worth releasing.
func (s *Store) Close() error { return nil }

func (s *Store) do(ctx context.Context, op, method, table string, q url.Values, in, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstream("store", op, err, time.Since(start)) }()

	u := s.baseURL + "/" + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rdr io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if out == nil {
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("store %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func parseError(status int, raw []byte) *store.Error {
	e := &store.Error{Status: status}
	var b errorBody
	if json.Unmarshal(raw, &b) == nil {
		e.Code, e.Message, e.Details = b.Code, b.Message, b.Details
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(raw))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
