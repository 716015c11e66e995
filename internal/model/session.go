package model

// Role is the coarse permission tier attached to a session.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// SessionUser is the identity payload stored server-side under an opaque
// session ID. This is the only source of request identity; client-supplied
// usernames or emails are never trusted.
type SessionUser struct {
	ID        int    `json:"id"`
	Role      Role   `json:"role"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}
