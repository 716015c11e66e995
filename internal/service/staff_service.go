package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// StaffRepo is the staff persistence needed by StaffService.
type StaffRepo interface {
	List(ctx context.Context) ([]model.Staff, error)
	GetByID(ctx context.Context, id int) (*model.Staff, error)
	Create(ctx context.Context, s *model.Staff) error
	Update(ctx context.Context, id int, upd model.StaffUpdate) (*model.Staff, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, id int) error
}

// StaffService handles administrator-driven staff account management.
type StaffService struct {
	repo       StaffRepo
	bcryptCost int
	log        zerolog.Logger
}

// NewStaffService creates a new StaffService.
func NewStaffService(repo StaffRepo, bcryptCost int, log zerolog.Logger) *StaffService {
	return &StaffService{
		repo:       repo,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "staff_service").Logger(),
	}
}

// List retrieves all staff records.
func (s *StaffService) List(ctx context.Context) ([]model.Staff, error) {
	return s.repo.List(ctx)
}

// Create hashes the password and stores the new staff account. The plaintext
// password is never persisted or logged.
func (s *StaffService) Create(ctx context.Context, req *model.CreateStaffRequest) (*model.Staff, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	staff := &model.Staff{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     req.LastName,
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.log.Info().Int("staff_id", staff.ID).Str("username", staff.Username).Msg("Staff created")
	return staff, nil
}

// Update applies a partial update and returns the updated record.
func (s *StaffService) Update(ctx context.Context, id int, upd model.StaffUpdate) (*model.Staff, error) {
	return s.repo.Update(ctx, id, upd)
}

// ResetPassword generates a temporary password, stores only its hash and
// returns the plaintext exactly once; it is not retrievable afterwards.
func (s *StaffService) ResetPassword(ctx context.Context, id int) (string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}

	temp, err := TempPassword()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(temp), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return "", err
	}

	s.log.Info().Int("staff_id", id).Msg("Temporary password issued")
	return temp, nil
}

// SetPassword hashes and stores an administrator-chosen password.
func (s *StaffService) SetPassword(ctx context.Context, id int, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, id, string(hash))
}

// Delete removes a staff account.
func (s *StaffService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// tempPasswordLen is the length of generated temporary passwords.
const tempPasswordLen = 10

// TempPassword generates a random alphanumeric temporary password from a
// cryptographically secure source.
func TempPassword() (string, error) {
	var b strings.Builder
	for b.Len() < tempPasswordLen {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		for _, c := range base64.StdEncoding.EncodeToString(buf) {
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				b.WriteRune(c)
				if b.Len() == tempPasswordLen {
					break
				}
			}
		}
	}
	return b.String(), nil
}
