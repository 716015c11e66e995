package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppraisalRepo struct {
	created []*model.Appraisal

	listUsername string
	listEmail    string
	mine         []model.Appraisal
}

func (f *fakeAppraisalRepo) Create(_ context.Context, a *model.Appraisal) error {
	a.ID = len(f.created) + 1
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAppraisalRepo) ListAll(_ context.Context) ([]model.Appraisal, error) {
	return nil, nil
}

func (f *fakeAppraisalRepo) ListBySubmitter(_ context.Context, username, email string) ([]model.Appraisal, error) {
	f.listUsername = username
	f.listEmail = email
	return f.mine, nil
}

func sessionUser() *model.SessionUser {
	return &model.SessionUser{
		ID:       7,
		Role:     model.RoleStaff,
		Username: "Jane",
		Name:     "Jane Smith",
		Email:    "Jane@Example.com",
	}
}

func TestAppraisalCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stamps submitter from session and extracts reg", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAppraisalRepo{}
		svc := NewAppraisalService(repo, zerolog.Nop())

		doc := map[string]interface{}{
			"reg":      " ab12 cde ",
			"mileage":  54000.0,
			"bodywork": "good",
		}
		a, err := svc.Create(ctx, doc, sessionUser())
		require.NoError(t, err)

		assert.Equal(t, "AB12 CDE", a.Reg)
		assert.Equal(t, "jane", a.SubmittedByUsername)
		assert.Equal(t, "jane@example.com", a.SubmittedByEmail)

		var stored map[string]interface{}
		require.NoError(t, json.Unmarshal(a.Document, &stored))
		assert.Equal(t, "Jane Smith", stored["submittedBy"])
		assert.Equal(t, "jane", stored["submittedByUsername"])
		assert.Equal(t, "jane@example.com", stored["submittedByEmail"])
		assert.Equal(t, 54000.0, stored["mileage"], "client fields survive verbatim")
	})

	t.Run("client-supplied submitter fields are overwritten", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAppraisalRepo{}
		svc := NewAppraisalService(repo, zerolog.Nop())

		doc := map[string]interface{}{
			"submittedBy":         "Someone Else",
			"submittedByUsername": "attacker",
			"submittedByEmail":    "attacker@evil.example",
		}
		a, err := svc.Create(ctx, doc, sessionUser())
		require.NoError(t, err)

		var stored map[string]interface{}
		require.NoError(t, json.Unmarshal(a.Document, &stored))
		assert.Equal(t, "jane", stored["submittedByUsername"])
		assert.Equal(t, "jane@example.com", stored["submittedByEmail"])
		assert.NotContains(t, string(a.Document), "attacker")
	})

	t.Run("missing reg stores empty column", func(t *testing.T) {
		t.Parallel()
		repo := &fakeAppraisalRepo{}
		svc := NewAppraisalService(repo, zerolog.Nop())

		a, err := svc.Create(ctx, map[string]interface{}{"notes": "no plate yet"}, sessionUser())
		require.NoError(t, err)
		assert.Empty(t, a.Reg)
	})
}

func TestAppraisalListMine(t *testing.T) {
	t.Parallel()

	repo := &fakeAppraisalRepo{mine: []model.Appraisal{{ID: 2}, {ID: 1}}}
	svc := NewAppraisalService(repo, zerolog.Nop())

	got, err := svc.ListMine(context.Background(), sessionUser())
	require.NoError(t, err)

	assert.Equal(t, "jane", repo.listUsername, "query identity comes normalized from the session")
	assert.Equal(t, "jane@example.com", repo.listEmail)
	assert.Len(t, got, 2)
}
