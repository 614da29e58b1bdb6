package user

import "time"

type Role string

const (
	RoleOwner  Role = "Owner"
	RoleSeeker Role = "Seeker"
)

// Valid reports whether the role is one of the two roles a user can register with.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleSeeker
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Mobile       string    `json:"mobile"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Name     string
	Mobile   string
	Email    string
	Password string
	Role     Role
}

type LoginRequest struct {
	Email    string
	Password string
}

type AuthResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
