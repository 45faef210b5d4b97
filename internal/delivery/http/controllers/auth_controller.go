package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "socialevents/internal/delivery/http/helpers"
	"socialevents/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RequestOTPRequest is the request body for POST /auth/request-otp
type RequestOTPRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (s RequestOTPRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// VerifyOTPRequest is the request body for POST /auth/verify-otp
type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (v VerifyOTPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(v.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// VerifyOTPResponse is the response body for POST /auth/verify-otp. For an
// existing account Token and User are set; for an unknown email NewUser is true
// and ProfileToken must be presented to complete-profile.
type VerifyOTPResponse struct {
	Token        string       `json:"token,omitempty"`
	TokenType    string       `json:"token_type,omitempty"`
	User         *domain.User `json:"user,omitempty"`
	ProfileToken string       `json:"profile_token,omitempty"`
	NewUser      bool         `json:"new_user"`
}

// CompleteProfileRequest is the request body for POST /auth/complete-profile
type CompleteProfileRequest struct {
	ProfileToken string `json:"profile_token"`
	Name         string `json:"name"`
}

// Validate implements Validator.
func (c CompleteProfileRequest) Validate() []string {
	var errs []string
	if c.ProfileToken == "" {
		errs = append(errs, "profile_token is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// CompleteProfileResponse is the response body for POST /auth/complete-profile
type CompleteProfileResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewAuthController(logger *slog.Logger, svc domain.UserService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestOTP godoc
// @Summary Request a login code
// @Description Emails a one-time 6-digit login code to the given address. The code expires after a few minutes. The response is the same whether or not an account exists for the email.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RequestOTPRequest true "Email address"
// @Success 200 {object} controllers.StatusSuccessResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/request-otp [post]
func (c *AuthController) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req RequestOTPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.RequestLoginCode(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteInternalError(w)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "code sent"})
}

// VerifyOTP godoc
// @Summary Verify a login code
// @Description Exchanges a valid login code for a session token. Unknown emails get a short-lived profile token instead and must call complete-profile. Codes are single use.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Email and code"
// @Success 200 {object} helpers.APIResponse "data contains token or profile_token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (wrong or expired code)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/verify-otp [post]
func (c *AuthController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.VerifyLoginCode(r.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired code")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteInternalError(w)
		return
	}
	resp := VerifyOTPResponse{NewUser: result.NewUser}
	if result.NewUser {
		resp.ProfileToken = result.ProfileToken
	} else {
		resp.Token = result.Token
		resp.TokenType = "Bearer"
		resp.User = result.User
	}
	h.WriteJSONSuccess(w, http.StatusOK, resp)
}

// CompleteProfile godoc
// @Summary Complete a new user's profile
// @Description Creates the account for a profile token obtained from verify-otp, using the given display name, and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body CompleteProfileRequest true "Profile token and name"
// @Success 201 {object} helpers.APIResponse "data contains token and the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (name missing or email already registered)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (invalid or expired profile token)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/complete-profile [post]
func (c *AuthController) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	var req CompleteProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.CompleteProfile(r.Context(), req.ProfileToken, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired profile token")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "email already registered")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteInternalError(w)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, CompleteProfileResponse{Token: token, TokenType: "Bearer", User: user})
}
