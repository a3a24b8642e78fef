// Package models holds the persisted shapes of the auth subsystem.
package models

import "time"

// Role is the coarse-grained label used by role checks.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Permission is a named fine-grained grant.
type Permission struct {
	ID   string
	Name string
}

// User is an account. PasswordHash is the bcrypt output, never the plaintext.
// A nil Permissions slice means the grants were not loaded or there are none;
// both deny permission checks.
type User struct {
	ID           string
	DisplayName  string
	UserName     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	Permissions  []Permission
	CreatedAt    time.Time
}

// PermissionNames returns the names of the loaded grants.
func (u *User) PermissionNames() []string {
	names := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		names = append(names, p.Name)
	}
	return names
}
