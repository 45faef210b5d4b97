package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// User represents a registered user.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the repository on create.
func NewUser(email, name string, avatar *string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		Avatar:    avatar,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// UserSummary is the public identity projection used for organizer and
// attendee listings: id, display name, and avatar only.
type UserSummary struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

// TokenIssuer issues signed tokens for authenticated users. IssueProfileToken
// issues the short-lived token handed to a new user who still has to complete
// their profile before a full session token can be granted.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
	IssueProfileToken(email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies tokens. Verify returns the authenticated user ID;
// VerifyProfileToken returns the email a profile-completion token was issued for.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
	VerifyProfileToken(token string) (email string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetSummary(ctx context.Context, id string) (*UserSummary, error)
}

// LoginCodeRepository defines the interface for one-time login code storage.
// Codes are stored hashed; Consume deletes the matching unexpired code.
type LoginCodeRepository interface {
	Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Consume(ctx context.Context, email, codeHash string) (consumed bool, err error)
}

// AuthResult is the outcome of a successful code verification. Either Token and
// User are set (existing account) or ProfileToken is set (caller must complete
// their profile first).
type AuthResult struct {
	Token        string
	User         *User
	ProfileToken string
	NewUser      bool
}

// UserService covers one-time-code authentication and profile lookups.
type UserService interface {
	RequestLoginCode(ctx context.Context, email string) error
	VerifyLoginCode(ctx context.Context, email, code string) (*AuthResult, error)
	CompleteProfile(ctx context.Context, profileToken, name string) (token string, user *User, err error)
	GetSummary(ctx context.Context, userID string) (*UserSummary, error)
}
