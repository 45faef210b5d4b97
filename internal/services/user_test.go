package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"socialevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoginCodeRepo is an in-memory LoginCodeRepository for tests.
type fakeLoginCodeRepo struct {
	hashes    map[string]string // email -> code hash
	createErr error
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{hashes: make(map[string]string)}
}

func (f *fakeLoginCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.hashes[email] = codeHash
	return nil
}

func (f *fakeLoginCodeRepo) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	if f.hashes[email] != codeHash {
		return false, nil
	}
	delete(f.hashes, email)
	return true, nil
}

// fakeTokenAuth is a deterministic TokenIssuer plus TokenVerifier for tests.
type fakeTokenAuth struct {
	issueErr error
}

func (f *fakeTokenAuth) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "token-" + userID, nil
}

func (f *fakeTokenAuth) IssueProfileToken(email string, expiry time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "profile-" + email, nil
}

func (f *fakeTokenAuth) Verify(token string) (string, error) {
	if !strings.HasPrefix(token, "token-") {
		return "", errors.New("invalid token")
	}
	return strings.TrimPrefix(token, "token-"), nil
}

func (f *fakeTokenAuth) VerifyProfileToken(token string) (string, error) {
	if !strings.HasPrefix(token, "profile-") {
		return "", errors.New("invalid profile token")
	}
	return strings.TrimPrefix(token, "profile-"), nil
}

// fakeLoginEmailService records the login code emails it was asked to send.
type fakeLoginEmailService struct {
	sent    []*domain.LoginCodeEmailData
	sendErr error
}

func (f *fakeLoginEmailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, data)
	return nil
}

func newTestUserService(ur *fakeUserRepo, lr *fakeLoginCodeRepo, es *fakeLoginEmailService) domain.UserService {
	auth := &fakeTokenAuth{}
	return NewUserService(ur, lr, auth, auth, time.Hour, es)
}

func TestUserService_RequestLoginCode(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores hash and sends email", func(t *testing.T) {
		lr := newFakeLoginCodeRepo()
		es := &fakeLoginEmailService{}
		svc := newTestUserService(newFakeUserRepo(), lr, es)

		require.NoError(t, svc.RequestLoginCode(ctx, "Ana@Example.com"))
		// Email is normalized before storage and delivery.
		require.Contains(t, lr.hashes, "ana@example.com")
		require.Len(t, es.sent, 1)
		assert.Equal(t, "ana@example.com", es.sent[0].Email)
		assert.Regexp(t, `^\d{6}$`, es.sent[0].Code)
		// The stored value is a hash, never the code itself.
		assert.NotEqual(t, es.sent[0].Code, lr.hashes["ana@example.com"])
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})
		err := svc.RequestLoginCode(ctx, "not-an-email")
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("store error propagates", func(t *testing.T) {
		lr := newFakeLoginCodeRepo()
		lr.createErr = errors.New("db down")
		svc := newTestUserService(newFakeUserRepo(), lr, &fakeLoginEmailService{})
		require.Error(t, svc.RequestLoginCode(ctx, "ana@example.com"))
	})
}

func TestUserService_VerifyLoginCode(t *testing.T) {
	ctx := context.Background()

	// requestCode runs the real request flow and returns the generated code.
	requestCode := func(t *testing.T, svc domain.UserService, es *fakeLoginEmailService, email string) string {
		t.Helper()
		require.NoError(t, svc.RequestLoginCode(ctx, email))
		require.NotEmpty(t, es.sent)
		return es.sent[len(es.sent)-1].Code
	}

	t.Run("existing user gets a session token", func(t *testing.T) {
		ur := newFakeUserRepo()
		ur.addUser("user-1", "ana@example.com", "Ana")
		es := &fakeLoginEmailService{}
		svc := newTestUserService(ur, newFakeLoginCodeRepo(), es)
		code := requestCode(t, svc, es, "ana@example.com")

		result, err := svc.VerifyLoginCode(ctx, "ana@example.com", code)
		require.NoError(t, err)
		assert.Equal(t, "token-user-1", result.Token)
		require.NotNil(t, result.User)
		assert.Equal(t, "user-1", result.User.ID)
		assert.False(t, result.NewUser)
		assert.Empty(t, result.ProfileToken)
	})

	t.Run("unknown email gets a profile token", func(t *testing.T) {
		es := &fakeLoginEmailService{}
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), es)
		code := requestCode(t, svc, es, "new@example.com")

		result, err := svc.VerifyLoginCode(ctx, "new@example.com", code)
		require.NoError(t, err)
		assert.True(t, result.NewUser)
		assert.Equal(t, "profile-new@example.com", result.ProfileToken)
		assert.Empty(t, result.Token)
		assert.Nil(t, result.User)
	})

	t.Run("wrong code", func(t *testing.T) {
		es := &fakeLoginEmailService{}
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), es)
		code := requestCode(t, svc, es, "ana@example.com")

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		_, err := svc.VerifyLoginCode(ctx, "ana@example.com", wrong)
		require.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("code is single use", func(t *testing.T) {
		ur := newFakeUserRepo()
		ur.addUser("user-1", "ana@example.com", "Ana")
		es := &fakeLoginEmailService{}
		svc := newTestUserService(ur, newFakeLoginCodeRepo(), es)
		code := requestCode(t, svc, es, "ana@example.com")

		_, err := svc.VerifyLoginCode(ctx, "ana@example.com", code)
		require.NoError(t, err)
		_, err = svc.VerifyLoginCode(ctx, "ana@example.com", code)
		require.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("malformed code", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})
		_, err := svc.VerifyLoginCode(ctx, "ana@example.com", "abc123")
		require.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})
		_, err := svc.VerifyLoginCode(ctx, "nope", "123456")
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestUserService_CompleteProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and issues a token", func(t *testing.T) {
		ur := newFakeUserRepo()
		svc := newTestUserService(ur, newFakeLoginCodeRepo(), &fakeLoginEmailService{})

		token, user, err := svc.CompleteProfile(ctx, "profile-new@example.com", "  Ana  ")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, "Ana", user.Name)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "token-"+user.ID, token)
		_, getErr := ur.GetByEmail(ctx, "new@example.com")
		require.NoError(t, getErr)
	})

	t.Run("invalid profile token", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})
		_, _, err := svc.CompleteProfile(ctx, "garbage", "Ana")
		require.True(t, errors.Is(err, domain.ErrUnauthorized))
	})

	t.Run("name is required", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})
		_, _, err := svc.CompleteProfile(ctx, "profile-new@example.com", "   ")
		require.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("duplicate email", func(t *testing.T) {
		ur := newFakeUserRepo()
		ur.addUser("user-1", "ana@example.com", "Ana")
		svc := newTestUserService(ur, newFakeLoginCodeRepo(), &fakeLoginEmailService{})

		_, _, err := svc.CompleteProfile(ctx, "profile-ana@example.com", "Ana Again")
		require.True(t, errors.Is(err, domain.ErrDuplicateEmail))
	})
}

func TestUserService_GetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ur := newFakeUserRepo()
		ur.addUser("user-1", "ana@example.com", "Ana")
		svc := newTestUserService(ur, newFakeLoginCodeRepo(), &fakeLoginEmailService{})

		summary, err := svc.GetSummary(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Ana", summary.Name)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo(), newFakeLoginCodeRepo(), &fakeLoginEmailService{})
		_, err := svc.GetSummary(ctx, "user-missing")
		require.True(t, errors.Is(err, domain.ErrUserNotFound))
	})
}

func TestGenerateLoginCode(t *testing.T) {
	// Enough samples that every digit value shows up unless the sampling is
	// broken or skewed toward a subrange.
	seen := make(map[byte]int)
	for i := 0; i < 200; i++ {
		code, err := generateLoginCode(6)
		require.NoError(t, err)
		require.Regexp(t, `^\d{6}$`, code)
		for j := 0; j < len(code); j++ {
			seen[code[j]]++
		}
	}
	for d := byte('0'); d <= '9'; d++ {
		assert.Greater(t, seen[d], 0, "digit %c never generated", d)
	}
}
