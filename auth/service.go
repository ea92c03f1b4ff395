package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/taskvault-go/apperror"
	"github.com/user/taskvault-go/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations; it catches the duplicate-registration race the pre-insert
// check cannot.
const pgUniqueViolation = "23505"

const (
	duplicateEmailMessage = "A user with this email already exists."
	badCredentialsMessage = "Incorrect email or password"
)

// Service implements registration, login and token-subject resolution.
type Service struct {
	store UserStore
	cfg   config.AuthConfig
}

// NewService creates an auth Service. The secret and TTL arrive through the
// configuration so tests can inject their own.
func NewService(store UserStore, cfg config.AuthConfig) *Service {
	return &Service{store: store, cfg: cfg}
}

// Claims is the token payload: just the registered claims, with the subject
// set to the user id. Identity is id-only, so profile changes never
// invalidate a token.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthResult pairs a stored identity with a freshly minted token.
type AuthResult struct {
	User  *User
	Token string
}

// Register creates a new user and mints a token for it. A duplicate
// normalized email fails with the same message whether it is caught by the
// lookup or by the unique index.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(req.Email)

	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to check for existing user", err)
	}
	if existing != nil {
		return nil, apperror.NewBadRequestError(duplicateEmailMessage, nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
	}

	if err := s.store.Insert(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewBadRequestError(duplicateEmailMessage, nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := s.SignToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user and mints a token. Unknown email and wrong
// password produce an identical message so the API never confirms whether
// an email is registered.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.NewBadRequestError("Please provide email and password!", nil)
	}

	user, err := s.store.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	if user == nil {
		return nil, apperror.NewAuthError(badCredentialsMessage, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError(badCredentialsMessage, nil)
	}

	token, err := s.SignToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID resolves a token subject to its stored identity. Absence is
// not an error here; the caller decides how to react to (nil, nil).
func (s *Service) GetUserByID(ctx context.Context, id string) (*User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return user, nil
}

// SignToken mints an HS256 token whose subject is the user id and whose
// lifetime is the configured TTL.
func (s *Service) SignToken(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks a token's signature and expiration and returns its
// claims. The jwt library's error is returned as-is so callers can tell an
// expired token from a malformed one with errors.Is.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}
