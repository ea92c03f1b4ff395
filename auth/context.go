package auth

import (
	"context"
	"time"
)

// CurrentUser is the caller identity the gate attaches to one in-flight
// request. It carries everything downstream handlers may serialize and
// deliberately has no password field.
type CurrentUser struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// contextKey is a private type so this package's context keys cannot collide
// with keys set by other packages.
type contextKey string

const currentUserKey contextKey = "auth_current_user"

// NewContextWithUser returns a child context carrying the caller identity.
func NewContextWithUser(ctx context.Context, user *CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// UserFromContext extracts the caller identity set by the gate. The second
// return value reports whether one was present.
func UserFromContext(ctx context.Context) (*CurrentUser, bool) {
	user, ok := ctx.Value(currentUserKey).(*CurrentUser)
	return user, ok
}
