package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskvault-go/apperror"
	"github.com/user/taskvault-go/config"
)

// fakeUserStore is an in-memory UserStore mirroring the real store's
// projection rules: FindByEmail includes the hash, FindByID does not.
type fakeUserStore struct {
	users            []User
	findByEmailCalls int
}

func (f *fakeUserStore) Insert(_ context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	f.findByEmailCalls++
	for _, u := range f.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			found := u
			found.Password = ""
			return &found, nil
		}
	}
	return nil, nil
}

func newTestService(store UserStore) *Service {
	return NewService(store, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Name: "Jo", Email: "Jo@X.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.NotEmpty(t, reg.User.ID)
	// Email is normalized to lowercase before storage.
	assert.Equal(t, "jo@x.com", reg.User.Email)
	// The stored hash is never the plaintext.
	assert.NotEmpty(t, reg.User.Password)
	assert.NotEqual(t, "secret1", reg.User.Password)

	login, err := svc.Login(ctx, LoginRequest{Email: "jo@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	claims, err := svc.VerifyToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.Subject)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Jo", Email: "jo@x.com", Password: "secret1"})
	require.NoError(t, err)

	// Different name and password, same email up to case.
	_, err = svc.Register(ctx, RegisterRequest{Name: "Other", Email: "JO@X.COM", Password: "different"})
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BadRequestError, appErr.Type)
	assert.Equal(t, "A user with this email already exists.", appErr.Message)
	assert.Len(t, store.users, 1)
}

func TestLoginUnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Jo", Email: "jo@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, LoginRequest{Email: "nobody@x.com", Password: "secret1"})
	_, wrongErr := svc.Login(ctx, LoginRequest{Email: "jo@x.com", Password: "wrong"})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	unknownApp, _ := apperror.FromError(unknownErr)
	wrongApp, _ := apperror.FromError(wrongErr)
	assert.Equal(t, apperror.AuthError, unknownApp.Type)
	assert.Equal(t, apperror.AuthError, wrongApp.Type)
	// Byte-identical messages: the API must not confirm whether an email is
	// registered.
	assert.Equal(t, unknownApp.Message, wrongApp.Message)
	assert.Equal(t, "Incorrect email or password", wrongApp.Message)
}

func TestLoginMissingFieldsFailsBeforeStoreAccess(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store)
	ctx := context.Background()

	for _, req := range []LoginRequest{
		{Email: "", Password: "secret1"},
		{Email: "jo@x.com", Password: ""},
		{},
	} {
		_, err := svc.Login(ctx, req)
		require.Error(t, err)
		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.BadRequestError, appErr.Type)
		assert.Equal(t, "Please provide email and password!", appErr.Message)
	}
	assert.Zero(t, store.findByEmailCalls)
}

func TestUserSerializationExcludesPassword(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store)

	reg, err := svc.Register(context.Background(), RegisterRequest{Name: "Jo", Email: "jo@x.com", Password: "secret1"})
	require.NoError(t, err)

	body, err := json.Marshal(reg.User)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
	assert.NotContains(t, string(body), reg.User.Password)
}

func TestGetUserByIDAbsent(t *testing.T) {
	svc := newTestService(&fakeUserStore{})

	user, err := svc.GetUserByID(context.Background(), "e2a8dbd6-54c4-4cf1-b51c-1ea5b2f5c2be")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestVerifyTokenExpired(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewService(store, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: -time.Minute})

	token, err := svc.SignToken("user-1")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.Error(t, err)
	// Expiration stays distinguishable from other verification failures.
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	signer := newTestService(&fakeUserStore{})
	verifier := NewService(&fakeUserStore{}, config.AuthConfig{JWTSecret: "other-secret", TokenTTL: time.Hour})

	token, err := signer.SignToken("user-1")
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
	assert.False(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerifyTokenMalformed(t *testing.T) {
	svc := newTestService(&fakeUserStore{})

	_, err := svc.VerifyToken("not.a.token")
	require.Error(t, err)
}

func TestTokenSurvivesUnrelatedState(t *testing.T) {
	// The claim is id-only, so a token keeps authenticating the same subject
	// for its whole lifetime regardless of any other state.
	svc := newTestService(&fakeUserStore{})

	token, err := svc.SignToken("user-42")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		claims, err := svc.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-42", claims.Subject)
	}
}
