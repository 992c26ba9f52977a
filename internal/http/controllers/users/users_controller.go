// Package users contains the create-user and delete-user controllers.
package users

import (
	"errors"
	"net/http"

	dto "github.com/CardChase151/clients-sub001/internal/http/dto/users"
	httperrors "github.com/CardChase151/clients-sub001/internal/http/errors"
	"github.com/CardChase151/clients-sub001/internal/http/helpers"
	svc "github.com/CardChase151/clients-sub001/internal/http/services/users"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

type UsersController struct {
	provisioner   svc.Provisioner
	deprovisioner svc.Deprovisioner
}

func NewUsersController(p svc.Provisioner, d svc.Deprovisioner) *UsersController {
	return &UsersController{provisioner: p, deprovisioner: d}
}

// CreateUser handles POST /api/create-user.
func (c *UsersController) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.CreateUser"))

	if r.Method != http.MethodPost {
		httperrors.WriteMethodNotAllowed(w, http.MethodPost)
		return
	}

	var req dto.CreateUserRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.provisioner.Provision(ctx, svc.ProvisionInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingCredentials):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithMessage("Email and password are required"))
		case errors.Is(err, svc.ErrNotConfigured):
			log.Error("create-user called without identity service or store")
			httperrors.WriteError(w, httperrors.ErrServerConfig)
		default:
			log.Error("provision failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	if res.Outcome != svc.OutcomeCompleted {
		log.Warn("provision did not complete", logger.Outcome(string(res.Outcome)))
		httperrors.WriteError(w, httperrors.ErrUpstream.WithMessage(res.Message()).WithCause(res.Err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.CreateUserResponse{
		Success: true,
		User:    dto.UserSummary{ID: res.User.ID, Email: res.User.Email},
	})
}

// DeleteUser handles DELETE or POST /api/delete-user.
func (c *UsersController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UsersController.DeleteUser"))

	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		httperrors.WriteMethodNotAllowed(w, "DELETE, POST")
		return
	}

	var req dto.DeleteUserRequest
	if err := helpers.ReadJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	res, err := c.deprovisioner.Deprovision(ctx, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingUserID):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithMessage("User ID is required"))
		case errors.Is(err, svc.ErrInvalidUserID):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithMessage("User ID must be a valid UUID"))
		case errors.Is(err, svc.ErrNotConfigured):
			log.Error("delete-user called without identity service or store")
			httperrors.WriteError(w, httperrors.ErrServerConfig)
		default:
			log.Error("deprovision failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	if res.Outcome != svc.OutcomeCompleted {
		log.Warn("deprovision did not complete", logger.Outcome(string(res.Outcome)), logger.UserID(res.UserID))
		httperrors.WriteError(w, httperrors.ErrUpstream.WithMessage(res.Message()).WithCause(res.Err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.DeleteUserResponse{Success: true, Message: "User deleted successfully"})
}
