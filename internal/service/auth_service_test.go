package service

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/mail"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminReader struct {
	admins map[string]*model.Admin
}

func (f *fakeAdminReader) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	if a, ok := f.admins[username]; ok {
		return a, nil
	}
	return nil, errors.New("admin not found")
}

type fakeCredStore struct {
	byUsername map[string]*model.Staff
	byEmail    map[string]*model.Staff

	tokenStaffID int
	token        string
	tokenExpires time.Time
	setTokenErr  error

	consumedToken string
	consumedHash  string
	consumeOK     bool
}

func (f *fakeCredStore) GetByUsername(_ context.Context, username string) (*model.Staff, error) {
	if s, ok := f.byUsername[username]; ok {
		return s, nil
	}
	return nil, errors.New("staff not found")
}

func (f *fakeCredStore) GetByEmail(_ context.Context, email string) (*model.Staff, error) {
	if s, ok := f.byEmail[email]; ok {
		return s, nil
	}
	return nil, errors.New("staff not found")
}

func (f *fakeCredStore) SetResetToken(_ context.Context, id int, token string, expires time.Time) error {
	if f.setTokenErr != nil {
		return f.setTokenErr
	}
	f.tokenStaffID = id
	f.token = token
	f.tokenExpires = expires
	return nil
}

func (f *fakeCredStore) ConsumeResetToken(_ context.Context, token, passwordHash string) (bool, error) {
	f.consumedToken = token
	f.consumedHash = passwordHash
	return f.consumeOK, nil
}

type fakeMailQueue struct {
	msgs []mail.ResetMessage
	err  error
}

func (f *fakeMailQueue) Enqueue(_ context.Context, msg mail.ResetMessage) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeAdminReader, *fakeCredStore, *fakeMailQueue) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	admins := &fakeAdminReader{admins: map[string]*model.Admin{
		"admin": {ID: 1, Username: "admin", PasswordHash: string(hash)},
	}}
	last := "Smith"
	staff := &fakeCredStore{
		byUsername: map[string]*model.Staff{
			"jane": {ID: 7, FirstName: "Jane", LastName: &last, Username: "jane", Email: "Jane@Example.com", PasswordHash: string(hash)},
		},
		byEmail: map[string]*model.Staff{
			"jane@example.com": {ID: 7, FirstName: "Jane", Username: "jane", Email: "jane@example.com", PasswordHash: string(hash)},
		},
	}
	queue := &fakeMailQueue{}

	cfg := &config.Config{
		BcryptCost:    bcrypt.MinCost,
		ClientOrigin:  "https://app.example.com/",
		ResetTokenTTL: time.Hour,
	}
	svc := NewAuthService(cfg, admins, staff, queue, zerolog.Nop())
	return svc, admins, staff, queue
}

func TestAdminLogin(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		user, err := svc.AdminLogin(ctx, "admin", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.Equal(t, "admin", user.Username)
		assert.Equal(t, 1, user.ID)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := svc.AdminLogin(ctx, "nobody", "correct-horse")
		_, errWrongPass := svc.AdminLogin(ctx, "admin", "wrong")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	})
}

func TestStaffLogin(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	t.Run("success builds session identity", func(t *testing.T) {
		user, err := svc.StaffLogin(ctx, "jane", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, model.RoleStaff, user.Role)
		assert.Equal(t, 7, user.ID)
		assert.Equal(t, "Jane Smith", user.Name)
		assert.Equal(t, "jane@example.com", user.Email, "session email is lowercased")
	})

	t.Run("failures are uniform", func(t *testing.T) {
		_, errUnknown := svc.StaffLogin(ctx, "nobody", "correct-horse")
		_, errWrongPass := svc.StaffLogin(ctx, "jane", "wrong")

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	})
}

func TestRequestPasswordReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("known email stores token and enqueues mail", func(t *testing.T) {
		t.Parallel()
		svc, _, staff, queue := newAuthFixture(t)

		svc.RequestPasswordReset(ctx, "  Jane@Example.COM ")

		require.NotEmpty(t, staff.token, "token must be stored")
		assert.Equal(t, 7, staff.tokenStaffID)
		assert.WithinDuration(t, time.Now().Add(time.Hour), staff.tokenExpires, 5*time.Second)

		require.Len(t, queue.msgs, 1)
		assert.Equal(t, "jane@example.com", queue.msgs[0].To)
		assert.Equal(t, "https://app.example.com/reset-password/"+staff.token, queue.msgs[0].ResetURL)
	})

	t.Run("unknown email enqueues nothing", func(t *testing.T) {
		t.Parallel()
		svc, _, staff, queue := newAuthFixture(t)

		svc.RequestPasswordReset(ctx, "stranger@example.com")

		assert.Empty(t, staff.token)
		assert.Empty(t, queue.msgs)
	})

	t.Run("store failure enqueues nothing", func(t *testing.T) {
		t.Parallel()
		svc, _, staff, queue := newAuthFixture(t)
		staff.setTokenErr = errors.New("db down")

		svc.RequestPasswordReset(ctx, "jane@example.com")

		assert.Empty(t, queue.msgs)
	})
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid token consumed with new hash", func(t *testing.T) {
		t.Parallel()
		svc, _, staff, _ := newAuthFixture(t)
		staff.consumeOK = true

		require.NoError(t, svc.ResetPassword(ctx, "sometoken", "new-password"))
		assert.Equal(t, "sometoken", staff.consumedToken)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(staff.consumedHash), []byte("new-password")))
	})

	t.Run("unknown or expired token", func(t *testing.T) {
		t.Parallel()
		svc, _, staff, _ := newAuthFixture(t)
		staff.consumeOK = false

		assert.ErrorIs(t, svc.ResetPassword(ctx, "sometoken", "new-password"), ErrResetTokenInvalid)
	})

	t.Run("empty token rejected without store roundtrip", func(t *testing.T) {
		t.Parallel()
		svc, _, staff, _ := newAuthFixture(t)

		assert.ErrorIs(t, svc.ResetPassword(ctx, "", "new-password"), ErrResetTokenInvalid)
		assert.Empty(t, staff.consumedToken)
	})
}

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)

	raw, err := hex.DecodeString(a)
	require.NoError(t, err, "token must be hex")
	assert.Len(t, raw, 32)
	assert.NotEqual(t, a, b)
}
