package domain

import "time"

// Role is the authorization role carried by a principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the registered principal. Email is its unique identifier.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identifier returns the value tokens are issued for.
func (u *User) Identifier() string {
	return u.Email
}

// WithoutCredential returns a copy safe to cache or expose downstream.
func (u *User) WithoutCredential() *User {
	cp := *u
	cp.PasswordHash = ""
	return &cp
}
