package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialevents/internal/domain"
)

// actionCreateProfile marks a token that only authorizes completing a new
// user's profile, not a full session.
const actionCreateProfile = "create-profile"

type jwtClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	Action string `json:"action,omitempty"`
}

type jwtAuth struct {
	secret []byte
}

// NewJWTAuth returns a TokenIssuer and TokenVerifier backed by HS256 JWTs
// signed with the given secret.
func NewJWTAuth(secret string) (domain.TokenIssuer, domain.TokenVerifier) {
	a := &jwtAuth{secret: []byte(secret)}
	return a, a
}

func (a *jwtAuth) Issue(userID, email string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (a *jwtAuth) IssueProfileToken(email string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email:  email,
		Action: actionCreateProfile,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign profile token: %w", err)
	}
	return tokenString, nil
}

func (a *jwtAuth) Verify(tokenString string) (string, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Action != "" || claims.Subject == "" {
		return "", fmt.Errorf("not a session token")
	}
	return claims.Subject, nil
}

func (a *jwtAuth) VerifyProfileToken(tokenString string) (string, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Action != actionCreateProfile || claims.Email == "" {
		return "", fmt.Errorf("not a profile token")
	}
	return claims.Email, nil
}

func (a *jwtAuth) parse(tokenString string) (*jwtClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
