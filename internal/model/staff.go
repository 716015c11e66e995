package model

import (
	"encoding/json"
	"time"
)

// Staff represents a staff member who submits appraisals.
// PasswordHash and the reset-token pair are never serialized; reset token and
// expiry are either both null or both set, and an expired token is treated
// as absent everywhere.
type Staff struct {
	ID                   int        `json:"id"`
	FirstName            string     `json:"first_name"`
	LastName             *string    `json:"last_name,omitempty"`
	Username             string     `json:"username"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	ResetPasswordToken   *string    `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// DisplayName joins the present name parts.
func (s *Staff) DisplayName() string {
	if s.LastName != nil && *s.LastName != "" {
		return s.FirstName + " " + *s.LastName
	}
	return s.FirstName
}

// CreateStaffRequest is the payload for creating a staff account.
// Last name is optional; everything else is required.
type CreateStaffRequest struct {
	FirstName string  `json:"first_name" binding:"required,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Username  string  `json:"username" binding:"required,min=2,max=100"`
	Email     string  `json:"email" binding:"required,email,max=255"`
	Password  string  `json:"password" binding:"required,min=6,max=128"`
}

// OptionalString distinguishes an absent JSON key from an explicit null or
// empty string. Absent means "leave unchanged"; null/"" means "clear".
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON marks the field as present before decoding the value.
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// Empty reports whether the field was set to null or "".
func (o OptionalString) Empty() bool {
	return o.Set && (o.Value == nil || *o.Value == "")
}

// UpdateStaffRequest is the partial-update payload for a staff record.
type UpdateStaffRequest struct {
	FirstName OptionalString `json:"first_name"`
	LastName  OptionalString `json:"last_name"`
	Username  OptionalString `json:"username"`
	Email     OptionalString `json:"email"`
}

// StaffUpdate is the normalized form applied by the repository.
type StaffUpdate struct {
	FirstName     *string
	LastName      *string
	ClearLastName bool
	Username      *string
	Email         *string
}

// SetPasswordRequest is the payload for manually setting a staff password.
type SetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// StaffLoginRequest is the payload for staff authentication.
type StaffLoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// ForgotPasswordRequest starts the reset-token lifecycle.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// ResetPasswordRequest exchanges a pending token for a new credential.
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=128"`
}
