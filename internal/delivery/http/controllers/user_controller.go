package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"socialevents/internal/delivery/http/helpers"
	"socialevents/internal/domain"
)

// GetUserSummarySuccessResponse is the success response envelope for GET /users/{userID} (200).
type GetUserSummarySuccessResponse struct {
	Data  *domain.UserSummary `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetUser godoc
// @Summary Get a user's public summary
// @Description Returns the user's id, display name, and avatar.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.GetUserSummarySuccessResponse "data contains the user summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing userID")
		return
	}
	summary, err := c.Service.GetSummary(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteInternalError(w)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, summary)
}
