package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserStore persists user identity records. Absent records are reported as
// (nil, nil) so callers decide whether absence is an error; FindByEmail is
// the only lookup that populates the password hash, since it exists solely
// for credential comparison.
type UserStore interface {
	Insert(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// PgxUserStore is the PostgreSQL implementation of UserStore.
type PgxUserStore struct {
	db *pgxpool.Pool
}

// NewPgxUserStore creates a UserStore backed by the given pool.
func NewPgxUserStore(db *pgxpool.Pool) *PgxUserStore {
	return &PgxUserStore{db: db}
}

// Insert persists a new identity record. The store assigns the timestamps;
// a unique violation on the email index surfaces as the raw pg error for the
// service to classify.
func (s *PgxUserStore) Insert(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, name, email, password)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`
	return s.db.QueryRow(ctx, query, user.ID, user.Name, user.Email, user.Password).
		Scan(&user.CreatedAt, &user.UpdatedAt)
}

// FindByEmail looks an identity up by its normalized email, including the
// password hash.
func (s *PgxUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, name, email, password, created_at, updated_at
	          FROM users WHERE email = $1`
	err := s.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID looks an identity up by primary key. The password hash is not
// selected; this is the default projection the rest of the app sees.
func (s *PgxUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	var user User
	query := `SELECT id, name, email, created_at, updated_at
	          FROM users WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
