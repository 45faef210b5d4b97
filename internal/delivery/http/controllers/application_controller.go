package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"socialevents/internal/delivery/http/helpers"
	"socialevents/internal/delivery/http/middleware"
	"socialevents/internal/domain"
)

// ApplyRequest is the request body for POST /events/applications/apply.
type ApplyRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (a ApplyRequest) Validate() []string {
	if a.EventID == "" {
		return []string{"event_id is required"}
	}
	return nil
}

// RespondApplicationRequest is the request body for POST /events/applications/respond.
type RespondApplicationRequest struct {
	UserID   string `json:"user_id"`
	EventID  string `json:"event_id"`
	Decision string `json:"decision"`
}

// Validate implements Validator.
func (r RespondApplicationRequest) Validate() []string {
	var errs []string
	if r.UserID == "" {
		errs = append(errs, "user_id is required")
	}
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if _, ok := domain.ParseApplicationDecision(r.Decision); !ok {
		errs = append(errs, "decision must be accept or reject")
	}
	return errs
}

// ListPendingApplicationsSuccessResponse is the success response envelope for GET /events/applications/pending (200).
type ListPendingApplicationsSuccessResponse struct {
	Data  []*domain.Application `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type ApplicationController struct {
	Logger  *slog.Logger
	Service domain.ApplicationService
}

func NewApplicationController(logger *slog.Logger, svc domain.ApplicationService) *ApplicationController {
	return &ApplicationController{
		Logger:  logger,
		Service: svc,
	}
}

// Apply godoc
// @Summary Apply to attend an event
// @Description Creates a pending attendance application for the caller. If an application already exists in any state nothing changes. Events the caller cannot see respond 404.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyRequest true "Event to apply to"
// @Success 200 {object} controllers.StatusSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/applications/apply [post]
func (c *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Apply(r.Context(), userID, req.EventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "applied"})
}

// Respond godoc
// @Summary Accept or reject an application
// @Description Decides a pending application for an event the caller owns. A decision is final; responding to an already-decided or missing application responds 404.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RespondApplicationRequest true "Application and decision"
// @Success 200 {object} controllers.StatusSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not event owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/applications/respond [post]
func (c *ApplicationController) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondApplicationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	status, _ := domain.ParseApplicationDecision(req.Decision)
	if err := c.Service.Respond(r.Context(), callerID, req.UserID, req.EventID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "application not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: string(status)})
}

// ListPending godoc
// @Summary List pending applications for owned events
// @Description Returns pending applications for events owned by the caller, oldest first.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListPendingApplicationsSuccessResponse "data is an array of applications"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/applications/pending [get]
func (c *ApplicationController) ListPending(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	apps, err := c.Service.ListPending(r.Context(), ownerID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	if apps == nil {
		apps = []*domain.Application{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}
