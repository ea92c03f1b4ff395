// Package auth owns registration, login, token issuance and the per-request
// authentication gate. It is the only package that touches password hashes
// or the token signing secret.
package auth

import "time"

// User represents a registered identity. The bcrypt hash lives in Password
// and is excluded from every serialized representation via the `json:"-"`
// tag; store lookups only populate it when explicitly asked to.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
