// Package pg implements store.Store directly on Postgres through pgxpool.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Options tunes the connection pool. Zero values keep pgxpool defaults,
// except MaxConns which defaults to 5.
type Options struct {
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

type Store struct{ pool *pgxpool.Pool }

var _ store.Store = (*Store)(nil)

// New opens a pool against dsn and pings it.
func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pcfg.MaxConns = 5
	if opts.MaxConns > 0 {
		pcfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		pcfg.MinConns = opts.MinConns
	}
	if opts.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = opts.ConnMaxLifetime
		pcfg.MaxConnIdleTime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the pool for migrations and health checks.
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// Close releases the pool. Safe to call more than once.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) InsertProfile(ctx context.Context, p store.NewProfile) (err error) {
	defer observe("insert_profile", time.Now(), &err)

	const q = `
		INSERT INTO users (id, email, approved, is_admin)
		VALUES ($1, $2, $3, $4)`
	if _, err := s.pool.Exec(ctx, q, p.ID, p.Email, p.Approved, p.IsAdmin); err != nil {
		return wrap("insert profile", err)
	}
	return nil
}

func (s *Store) DeleteProfile(ctx context.Context, id string) (err error) {
	defer observe("delete_profile", time.Now(), &err)

	if _, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return wrap("delete profile", err)
	}
	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (_ *store.Profile, err error) {
	defer observe("find_by_email", time.Now(), &err)

	const q = `
		SELECT id, email, approved, is_admin, last_email_status, last_email_opened_at
		FROM users
		WHERE email = $1
		LIMIT 1`

	var (
		p      store.Profile
		status *string
	)
	err = s.pool.QueryRow(ctx, q, email).Scan(
		&p.ID, &p.Email, &p.Approved, &p.IsAdmin, &status, &p.LastEmailOpenedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, wrap("find by email", err)
	}
	if status != nil {
		st := store.EmailStatus(*status)
		p.LastEmailStatus = &st
	}
	return &p, nil
}

// UpdateEmailStatus keeps last_email_opened_at unless the update carries one.
func (s *Store) UpdateEmailStatus(ctx context.Context, id string, u store.StatusUpdate) (err error) {
	defer observe("update_email_status", time.Now(), &err)

	const q = `
		UPDATE users
		SET last_email_status = $2,
		    last_email_opened_at = COALESCE($3, last_email_opened_at)
		WHERE id = $1`
	if _, err := s.pool.Exec(ctx, q, id, string(u.Status), u.OpenedAt); err != nil {
		return wrap("update email status", err)
	}
	return nil
}

func (s *Store) InsertHistory(ctx context.Context, e store.HistoryEntry) (err error) {
	defer observe("insert_history", time.Now(), &err)

	snap, err := json.Marshal(store.EmptySnapshot(e.ChangesSnapshot))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const q = `
		INSERT INTO email_history (user_id, sent_by, message, subject, changes_snapshot, success)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)`
	if _, err := s.pool.Exec(ctx, q, e.UserID, e.SentBy, e.Message, e.Subject, string(snap), e.Success); err != nil {
		return wrap("insert history", err)
	}
	return nil
}

func observe(op string, start time.Time, err *error) {
	metrics.RecordUpstream("store", op, *err, time.Since(start))
}

// wrap turns server-side rejections into *store.Error so callers can
// surface the database message the same way they do for the REST adapter.
func wrap(op string, err error) error {
	var pe *pgconn.PgError
	if !errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", op, err)
	}
	status := http.StatusBadRequest
	switch pe.Code {
	case "23505":
		status = http.StatusConflict
	case "42P01", "42703":
		status = http.StatusInternalServerError
	}
	return &store.Error{Status: status, Code: pe.Code, Message: pe.Message, Details: pe.Detail}
}
