package auth

import (
	"net/http"
	"strings"

	"github.com/user/taskvault-go/apperror"
)

const (
	notLoggedInMessage = "You are not logged in! Please log in to get access."
	userGoneMessage    = "The user belonging to this token no longer exists."
	bearerSchemePrefix = "Bearer"
)

// RequireUser is the authentication gate. For every request it extracts the
// bearer token, verifies it, resolves the subject against the store and
// attaches the caller identity to the request context. There is no caching:
// each request re-reads the identity, so deleting a user revokes their
// tokens on the next request.
//
// The decision order is fixed and each step short-circuits:
//  1. missing header or bare "Bearer" with no token part -> 401 not-logged-in
//  2. signature/expiration failure -> 401 carrying the verification error
//  3. subject resolves to no identity -> 401 user-no-longer-exists
func RequireUser(svc *Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerSchemePrefix) {
				WriteError(w, r, apperror.NewAuthError(notLoggedInMessage, nil))
				return
			}
			parts := strings.Fields(header)
			if len(parts) < 2 {
				WriteError(w, r, apperror.NewAuthError(notLoggedInMessage, nil))
				return
			}
			tokenString := parts[1]

			claims, err := svc.VerifyToken(tokenString)
			if err != nil {
				// The verification error is wrapped, not replaced, so an
				// expired token stays distinguishable from a malformed one.
				WriteError(w, r, apperror.NewAuthError(err.Error(), err))
				return
			}

			user, err := svc.GetUserByID(r.Context(), claims.Subject)
			if err != nil {
				WriteError(w, r, err)
				return
			}
			if user == nil {
				WriteError(w, r, apperror.NewAuthError(userGoneMessage, nil))
				return
			}

			current := &CurrentUser{
				ID:        user.ID,
				Name:      user.Name,
				Email:     user.Email,
				CreatedAt: user.CreatedAt,
				UpdatedAt: user.UpdatedAt,
			}
			next.ServeHTTP(w, r.WithContext(NewContextWithUser(r.Context(), current)))
		})
	}
}
