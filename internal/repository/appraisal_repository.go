package repository

import (
	"context"

	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppraisalRepository handles appraisal document access. Documents are
// write-once; there is no update or delete path.
type AppraisalRepository struct {
	pool *pgxpool.Pool
}

// NewAppraisalRepository creates a new AppraisalRepository.
func NewAppraisalRepository(pool *pgxpool.Pool) *AppraisalRepository {
	return &AppraisalRepository{pool: pool}
}

// Create inserts an appraisal document.
func (r *AppraisalRepository) Create(ctx context.Context, a *model.Appraisal) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO appraisals (reg, submitted_by_username, submitted_by_email, document)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.Reg, a.SubmittedByUsername, a.SubmittedByEmail, a.Document,
	).Scan(&a.ID, &a.CreatedAt)
}

// ListAll retrieves every appraisal, newest first.
func (r *AppraisalRepository) ListAll(ctx context.Context) ([]model.Appraisal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, reg, submitted_by_username, submitted_by_email, document, created_at
		 FROM appraisals ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectAppraisals(rows)
}

// ListBySubmitter retrieves appraisals whose submitter matches the given
// username or email, newest first.
func (r *AppraisalRepository) ListBySubmitter(ctx context.Context, username, email string) ([]model.Appraisal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, reg, submitted_by_username, submitted_by_email, document, created_at
		 FROM appraisals
		 WHERE (submitted_by_username = $1 AND $1 <> '')
		    OR (submitted_by_email = $2 AND $2 <> '')
		 ORDER BY created_at DESC, id DESC`,
		username, email)
	if err != nil {
		return nil, err
	}
	return collectAppraisals(rows)
}

func collectAppraisals(rows pgx.Rows) ([]model.Appraisal, error) {
	defer rows.Close()

	var list []model.Appraisal
	for rows.Next() {
		var a model.Appraisal
		if err := rows.Scan(&a.ID, &a.Reg, &a.SubmittedByUsername, &a.SubmittedByEmail,
			&a.Document, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
