package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrStaffNotFound is returned when no staff row matches the lookup.
	ErrStaffNotFound = errors.New("staff not found")
	// ErrDuplicateStaff is returned on username/email unique violations.
	ErrDuplicateStaff = errors.New("staff with this username or email already exists")
)

const staffColumns = `id, first_name, last_name, username, email, password_hash,
	reset_password_token, reset_password_expires, created_at, updated_at`

// StaffRepository handles staff data access.
type StaffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func scanStaff(row pgx.Row) (*model.Staff, error) {
	s := &model.Staff{}
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Username, &s.Email,
		&s.PasswordHash, &s.ResetPasswordToken, &s.ResetPasswordExpires,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return s, nil
}

// List retrieves all staff ordered by creation time, newest first.
func (r *StaffRepository) List(ctx context.Context) ([]model.Staff, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+staffColumns+` FROM staff ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []model.Staff
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Username, &s.Email,
			&s.PasswordHash, &s.ResetPasswordToken, &s.ResetPasswordExpires,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

// GetByID retrieves a staff member by ID.
func (r *StaffRepository) GetByID(ctx context.Context, id int) (*model.Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

// GetByUsername retrieves a staff member by their unique username.
func (r *StaffRepository) GetByUsername(ctx context.Context, username string) (*model.Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE username = $1`, username))
}

// GetByEmail retrieves a staff member by their unique email.
func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE email = $1`, email))
}

// Create inserts a new staff member.
func (r *StaffRepository) Create(ctx context.Context, s *model.Staff) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO staff (first_name, last_name, username, email, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.FirstName, s.LastName, s.Username, s.Email, s.PasswordHash,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStaff
		}
		return err
	}
	return nil
}

// Update applies a partial update. Only fields present in upd are touched;
// ClearLastName sets last_name to NULL. Returns the updated row.
func (r *StaffRepository) Update(ctx context.Context, id int, upd model.StaffUpdate) (*model.Staff, error) {
	sets := []string{"updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{}
	idx := 1

	add := func(column string, value interface{}) {
		sets = append(sets, column+" = $"+strconv.Itoa(idx))
		args = append(args, value)
		idx++
	}

	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.ClearLastName {
		sets = append(sets, "last_name = NULL")
	} else if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}

	args = append(args, id)
	query := `UPDATE staff SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(idx) +
		` RETURNING ` + staffColumns

	s, err := scanStaff(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateStaff
		}
		return nil, err
	}
	return s, nil
}

// UpdatePassword replaces a staff member's password hash.
func (r *StaffRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// SetResetToken stores a pending reset token and its expiry, overwriting any
// previously pending token for the account.
func (r *StaffRepository) SetResetToken(ctx context.Context, id int, token string, expires time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff
		 SET reset_password_token = $1, reset_password_expires = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		token, expires, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// ConsumeResetToken atomically exchanges a pending, unexpired token for a new
// password hash, clearing both token and expiry in the same statement so the
// token cannot be replayed. Returns false when the token is unknown, expired
// or already consumed.
func (r *StaffRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff
		 SET password_hash = $1,
		     reset_password_token = NULL,
		     reset_password_expires = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE reset_password_token = $2
		   AND reset_password_expires > NOW()`,
		passwordHash, token,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Delete removes a staff member by ID.
func (r *StaffRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	return err
}
