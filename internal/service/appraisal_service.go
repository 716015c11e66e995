package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/rs/zerolog"
)

// AppraisalRepo is the appraisal persistence needed by AppraisalService.
type AppraisalRepo interface {
	Create(ctx context.Context, a *model.Appraisal) error
	ListAll(ctx context.Context) ([]model.Appraisal, error)
	ListBySubmitter(ctx context.Context, username, email string) ([]model.Appraisal, error)
}

// AppraisalService handles appraisal capture and listing.
type AppraisalService struct {
	repo AppraisalRepo
	log  zerolog.Logger
}

// NewAppraisalService creates a new AppraisalService.
func NewAppraisalService(repo AppraisalRepo, log zerolog.Logger) *AppraisalService {
	return &AppraisalService{
		repo: repo,
		log:  log.With().Str("component", "appraisal_service").Logger(),
	}
}

// Create stores the submitted document verbatim, except that submitter
// identity is stamped from the server-side session. Any submitter fields in
// the client payload are overwritten, never trusted.
func (s *AppraisalService) Create(ctx context.Context, doc map[string]interface{}, user *model.SessionUser) (*model.Appraisal, error) {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	email := strings.ToLower(strings.TrimSpace(user.Email))

	submittedBy := user.Name
	if submittedBy == "" {
		submittedBy = username
	}
	doc[model.DocFieldSubmittedBy] = submittedBy
	doc[model.DocFieldSubmittedByUsername] = username
	doc[model.DocFieldSubmittedByEmail] = email

	reg, _ := doc[model.DocFieldReg].(string)

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal appraisal: %w", err)
	}

	appraisal := &model.Appraisal{
		Reg:                 strings.ToUpper(strings.TrimSpace(reg)),
		SubmittedByUsername: username,
		SubmittedByEmail:    email,
		Document:            payload,
	}
	if err := s.repo.Create(ctx, appraisal); err != nil {
		return nil, err
	}

	s.log.Info().Int("appraisal_id", appraisal.ID).Str("reg", appraisal.Reg).Msg("Appraisal created")
	return appraisal, nil
}

// ListAll retrieves every appraisal, newest first.
func (s *AppraisalService) ListAll(ctx context.Context) ([]model.Appraisal, error) {
	return s.repo.ListAll(ctx)
}

// ListMine retrieves the session user's own appraisals, newest first.
// Identity comes only from the session, never from query parameters.
func (s *AppraisalService) ListMine(ctx context.Context, user *model.SessionUser) ([]model.Appraisal, error) {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	email := strings.ToLower(strings.TrimSpace(user.Email))
	return s.repo.ListBySubmitter(ctx, username, email)
}
