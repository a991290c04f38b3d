package model

import "time"

// Role is the explicit authorization role of a user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is an account that can log in. KTP is the national identity number.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	KTP          int64     `json:"-"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role. Safe on a nil receiver.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// RegisterRequest is the payload for self-service student registration.
// Password is capped at 72 bytes (pwbytes), the bcrypt input limit; max=72
// alone counts characters.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=255"`
	Email    string `json:"email" form:"email" binding:"required,email,max=100"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72,pwbytes"`
	KTP      string `json:"ktp" form:"ktp" binding:"required,ktp"`
}

// LoginRequest is the payload for email + password authentication.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=100"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72,pwbytes"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
