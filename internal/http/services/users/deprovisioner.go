package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/CardChase151/clients-sub001/internal/audit"
	"github.com/CardChase151/clients-sub001/internal/identity"
	"github.com/CardChase151/clients-sub001/internal/metrics"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
	"github.com/CardChase151/clients-sub001/internal/store"
)

var (
	ErrMissingUserID = errors.New("user id is required")
	ErrInvalidUserID = errors.New("user id must be a valid UUID")
)

type DeprovisionResult struct {
	Outcome Outcome
	UserID  string
	Err     error
}

// Message is the upstream message of Err.
func (r *DeprovisionResult) Message() string {
	if r.Outcome == OutcomeIdentityDeleteFailed {
		return identity.Message(r.Err)
	}
	return store.Message(r.Err)
}

type Deprovisioner interface {
	// Deprovision deletes the users row, then the identity.
	Deprovision(ctx context.Context, userID string) (*DeprovisionResult, error)
}

type deprovisioner struct {
	identity identity.Service
	users    store.Users
}

func NewDeprovisioner(id identity.Service, users store.Users) Deprovisioner {
	return &deprovisioner{identity: id, users: users}
}

func (d *deprovisioner) Deprovision(ctx context.Context, userID string) (*DeprovisionResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("users.deprovisioner"),
		logger.Op("Deprovision"),
	)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	if d.identity == nil || d.users == nil {
		return nil, ErrNotConfigured
	}
	userID = id.String()
	log = log.With(logger.UserID(userID))

	if err := d.users.DeleteProfile(ctx, userID); err != nil {
		log.Warn("profile delete failed, identity left untouched", logger.Err(err))
		return d.finish(ctx, &DeprovisionResult{Outcome: OutcomeProfileDeleteFailed, UserID: userID, Err: err}), nil
	}

	if err := d.identity.DeleteUser(ctx, userID); err != nil {
		log.Error("identity delete failed after profile delete, identity is dangling", logger.Err(err))
		return d.finish(ctx, &DeprovisionResult{Outcome: OutcomeIdentityDeleteFailed, UserID: userID, Err: err}), nil
	}

	log.Info("user deleted")
	return d.finish(ctx, &DeprovisionResult{Outcome: OutcomeCompleted, UserID: userID}), nil
}

func (d *deprovisioner) finish(ctx context.Context, r *DeprovisionResult) *DeprovisionResult {
	metrics.RecordProvision("delete", string(r.Outcome))
	audit.Log(ctx, audit.EventUserDelete, logger.Outcome(string(r.Outcome)), logger.UserID(r.UserID))
	return r
}
