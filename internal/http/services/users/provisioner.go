// Package users provisions and de-provisions a user across the identity
// service and the users table. Both operations are compensating sequences
// whose result is reported as a typed Outcome.
package users

import (
	"context"
	"errors"
	"strings"

	"github.com/CardChase151/clients-sub001/internal/audit"
	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
	"github.com/CardChase151/clients-sub001/internal/store"
)

// Outcome is where a provisioning sequence ended.
type Outcome string

const (
	OutcomeCompleted      Outcome = "completed"
	OutcomeIdentityFailed Outcome = "identity_failed"
	// OutcomeRolledBack means the profile insert failed and the identity was deleted.
	OutcomeRolledBack Outcome = "rolled_back"
	// OutcomeRollbackFailed leaves an identity with no users row.
	OutcomeRollbackFailed Outcome = "rollback_failed"

	OutcomeProfileDeleteFailed Outcome = "profile_delete_failed"
	// OutcomeIdentityDeleteFailed leaves an identity whose users row is gone.
	// Running the delete again finishes it.
	OutcomeIdentityDeleteFailed Outcome = "identity_delete_failed"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNotConfigured      = errors.New("identity service or store not configured")
)

type ProvisionInput struct {
	Email    string
	Password string
	FullName string
}

// ProvisionResult describes a finished sequence. Err is the failure surfaced
// to the caller; RollbackErr is set only for OutcomeRollbackFailed.
type ProvisionResult struct {
	Outcome     Outcome
	User        *identity.User
	Err         error
	RollbackErr error
}

// Message is the upstream message of Err, for the response body.
func (r *ProvisionResult) Message() string {
	var ie *identity.Error
	if errors.As(r.Err, &ie) {
		return identity.Message(r.Err)
	}
	return store.Message(r.Err)
}

type Provisioner interface {
	// Provision returns an error only for invalid input or missing
	// configuration; remote failures are reported in the result.
	Provision(ctx context.Context, in ProvisionInput) (*ProvisionResult, error)
}

type provisioner struct {
	identity identity.Service
	users    store.Users
}

func NewProvisioner(id identity.Service, users store.Users) Provisioner {
	return &provisioner{identity: id, users: users}
}

func (p *provisioner) Provision(ctx context.Context, in ProvisionInput) (*ProvisionResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("users.provisioner"),
		logger.Op("Provision"),
	)

	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingCredentials
	}
	if p.identity == nil || p.users == nil {
		return nil, ErrNotConfigured
	}

	u, err := p.identity.CreateUser(ctx, identity.CreateParams{
		Email:        email,
		Password:     in.Password,
		EmailConfirm: true,
		Metadata:     map[string]any{"full_name": in.FullName},
	})
	if err != nil {
		log.Warn("identity create failed", logger.Email(email), logger.Err(err))
		return p.finish(ctx, &ProvisionResult{Outcome: OutcomeIdentityFailed, Err: err}), nil
	}
	log = log.With(logger.UserID(u.ID))

	err = p.users.InsertProfile(ctx, store.NewProfile{
		ID:       u.ID,
		Email:    email,
		Approved: true,
		IsAdmin:  false,
	})
	if err == nil {
		log.Info("user provisioned")
		return p.finish(ctx, &ProvisionResult{Outcome: OutcomeCompleted, User: u}), nil
	}

	log.Warn("profile insert failed, deleting identity", logger.Err(err))
	res := &ProvisionResult{Outcome: OutcomeRolledBack, User: u, Err: err}
	if rbErr := p.identity.DeleteUser(ctx, u.ID); rbErr != nil {
		res.Outcome = OutcomeRollbackFailed
		res.RollbackErr = rbErr
		log.Error("rollback failed, identity has no profile row",
			logger.String("orphan_id", u.ID), logger.Err(rbErr))
	}
	return p.finish(ctx, res), nil
}

func (p *provisioner) finish(ctx context.Context, r *ProvisionResult) *ProvisionResult {
	metrics.RecordProvision("create", string(r.Outcome))
	fields := []logger.Field{logger.Outcome(string(r.Outcome))}
	if r.User != nil {
		fields = append(fields, logger.UserID(r.User.ID), logger.Email(r.User.Email))
	}
	audit.Log(ctx, audit.EventUserCreate, fields...)
	return r
}
