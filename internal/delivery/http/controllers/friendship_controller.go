package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"socialevents/internal/delivery/http/helpers"
	"socialevents/internal/delivery/http/middleware"
	"socialevents/internal/domain"
)

// FriendRequestRequest is the request body for POST /friendships/request.
type FriendRequestRequest struct {
	UserID string `json:"user_id"`
}

// Validate implements Validator.
func (f FriendRequestRequest) Validate() []string {
	if f.UserID == "" {
		return []string{"user_id is required"}
	}
	return nil
}

// RespondFriendshipRequest is the request body for POST /friendships/respond.
// UserID is the requester whose pending request the caller is deciding.
type RespondFriendshipRequest struct {
	UserID   string `json:"user_id"`
	Decision string `json:"decision"`
}

// Validate implements Validator.
func (r RespondFriendshipRequest) Validate() []string {
	var errs []string
	if r.UserID == "" {
		errs = append(errs, "user_id is required")
	}
	if _, ok := domain.ParseFriendshipDecision(r.Decision); !ok {
		errs = append(errs, "decision must be accept or reject")
	}
	return errs
}

// ListPendingFriendRequestsSuccessResponse is the success response envelope for GET /friendships/pending (200).
type ListPendingFriendRequestsSuccessResponse struct {
	Data  []*domain.PendingFriendRequest `json:"data"`
	Error *helpers.APIError              `json:"error"`
}

// GetFriendshipSuccessResponse is the success response envelope for GET /friendships/{userID} (200).
type GetFriendshipSuccessResponse struct {
	Data  *domain.Friendship `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type FriendshipController struct {
	Logger  *slog.Logger
	Service domain.FriendshipService
}

func NewFriendshipController(logger *slog.Logger, svc domain.FriendshipService) *FriendshipController {
	return &FriendshipController{
		Logger:  logger,
		Service: svc,
	}
}

// Request godoc
// @Summary Send a friend request
// @Description Creates a pending friend request from the caller to the given user. If any relationship already exists between the pair, in either direction and any state, nothing changes and the call still succeeds.
// @Tags friendships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body FriendRequestRequest true "Recipient user ID"
// @Success 200 {object} controllers.StatusSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (self-request or invalid body)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no such user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /friendships/request [post]
func (c *FriendshipController) Request(w http.ResponseWriter, r *http.Request) {
	var req FriendRequestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.SendRequest(r.Context(), callerID, req.UserID); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "requested"})
}

// Respond godoc
// @Summary Accept or reject a friend request
// @Description Decides a pending friend request sent to the caller by the given user. Responding when no pending request exists in that direction responds 404.
// @Tags friendships
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RespondFriendshipRequest true "Requester user ID and decision"
// @Success 200 {object} controllers.StatusSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /friendships/respond [post]
func (c *FriendshipController) Respond(w http.ResponseWriter, r *http.Request) {
	var req RespondFriendshipRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	decision, _ := domain.ParseFriendshipDecision(req.Decision)
	if err := c.Service.Respond(r.Context(), req.UserID, callerID, decision); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "friend request not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: string(decision) + "ed"})
}

// ListPending godoc
// @Summary List pending friend requests
// @Description Returns pending friend requests addressed to the caller, oldest first, with each requester's summary.
// @Tags friendships
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListPendingFriendRequestsSuccessResponse "data is an array of pending requests"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /friendships/pending [get]
func (c *FriendshipController) ListPending(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	pending, err := c.Service.ListPending(r.Context(), callerID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	if pending == nil {
		pending = []*domain.PendingFriendRequest{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, pending)
}

// GetFriendship godoc
// @Summary Get the friendship with a user
// @Description Returns the friendship row between the caller and the given user, in either direction. 404 when none exists.
// @Tags friendships
// @Produce json
// @Security BearerAuth
// @Param userID path string true "Other user ID (UUID)"
// @Success 200 {object} controllers.GetFriendshipSuccessResponse "data contains the friendship"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /friendships/{userID} [get]
func (c *FriendshipController) GetFriendship(w http.ResponseWriter, r *http.Request) {
	otherID := r.PathValue("userID")
	if otherID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	callerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	friendship, err := c.Service.GetWithUser(r.Context(), callerID, otherID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "friendship not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, friendship)
}
