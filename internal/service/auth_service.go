package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/mail"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	// ErrInvalidCredentials is returned for unknown user AND wrong password;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrResetTokenInvalid is returned for unknown, expired and already
	// consumed reset tokens alike.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// AdminReader is the admin lookup needed for login.
type AdminReader interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
}

// StaffCredentialStore is the staff access needed for login and the
// reset-token lifecycle.
type StaffCredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Staff, error)
	GetByEmail(ctx context.Context, email string) (*model.Staff, error)
	SetResetToken(ctx context.Context, id int, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error)
}

// ResetMailQueue enqueues reset emails for background delivery.
type ResetMailQueue interface {
	Enqueue(ctx context.Context, msg mail.ResetMessage) error
}

// AuthService handles credential verification and the password-reset
// token lifecycle.
type AuthService struct {
	cfg    *config.Config
	admins AdminReader
	staff  StaffCredentialStore
	queue  ResetMailQueue
	log    zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, admins AdminReader, staff StaffCredentialStore, queue ResetMailQueue, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:    cfg,
		admins: admins,
		staff:  staff,
		queue:  queue,
		log:    log.With().Str("component", "auth_service").Logger(),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// AdminLogin verifies admin credentials and returns the session identity.
func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (*model.SessionUser, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.CheckPassword(admin.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &model.SessionUser{
		ID:       admin.ID,
		Role:     model.RoleAdmin,
		Username: admin.Username,
	}, nil
}

// StaffLogin verifies staff credentials and returns the session identity.
func (s *AuthService) StaffLogin(ctx context.Context, username, password string) (*model.SessionUser, error) {
	staff, err := s.staff.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.CheckPassword(staff.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := &model.SessionUser{
		ID:        staff.ID,
		Role:      model.RoleStaff,
		Username:  staff.Username,
		Name:      staff.DisplayName(),
		FirstName: staff.FirstName,
		Email:     strings.ToLower(staff.Email),
	}
	if staff.LastName != nil {
		user.LastName = *staff.LastName
	}
	return user, nil
}

// RequestPasswordReset issues a fresh single-use token for the account
// registered under email, overwriting any pending token, and enqueues the
// reset mail. It intentionally reports nothing back: the caller's response
// must be identical whether or not the account exists and whether or not
// anything here succeeded, so failures are only logged.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) {
	email = strings.ToLower(strings.TrimSpace(email))

	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		// Unknown address or store failure: behave identically.
		s.log.Debug().Err(err).Msg("Reset requested for unresolvable email")
		return
	}

	token, err := NewResetToken()
	if err != nil {
		s.log.Error().Err(err).Msg("Reset token generation failed")
		return
	}

	expires := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.staff.SetResetToken(ctx, staff.ID, token, expires); err != nil {
		s.log.Error().Err(err).Int("staff_id", staff.ID).Msg("Reset token store failed")
		return
	}

	msg := mail.ResetMessage{
		To:       staff.Email,
		ResetURL: strings.TrimRight(s.cfg.ClientOrigin, "/") + "/reset-password/" + token,
	}
	if err := s.queue.Enqueue(ctx, msg); err != nil {
		s.log.Error().Err(err).Int("staff_id", staff.ID).Msg("Reset mail enqueue failed")
		return
	}

	s.log.Info().Int("staff_id", staff.ID).Msg("Reset mail enqueued")
}

// ResetPassword exchanges a pending token for a new credential. The token is
// consumed atomically; a second call with the same token fails.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	ok, err := s.staff.ConsumeResetToken(ctx, token, hash)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return ErrResetTokenInvalid
	}
	return nil
}

// NewResetToken generates a 32-byte cryptographically random token rendered
// as hex, safe to embed in a URL.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
