package staff

import "time"

// Role decides which submissions a staff member may review.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// Member is a staff account from the directory.
type Member struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Teacher      string    `json:"teacher,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Scope returns the roster label a member is restricted to, or "" for admins.
func (m Member) Scope() string {
	if m.Role == RoleAdmin {
		return ""
	}
	return m.Teacher
}
