package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskvault-go/config"
)

// gateTestSetup registers a user and returns the service, the user and a
// handler that records the identity the gate attached.
func gateTestSetup(t *testing.T) (*Service, *User, http.Handler, *CurrentUser) {
	t.Helper()
	store := &fakeUserStore{}
	svc := newTestService(store)

	reg, err := svc.Register(context.Background(), RegisterRequest{Name: "Jo", Email: "jo@x.com", Password: "secret1"})
	require.NoError(t, err)

	seen := &CurrentUser{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		*seen = *user
		w.WriteHeader(http.StatusOK)
	})
	return svc, reg.User, RequireUser(svc)(inner), seen
}

func doGateRequest(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) (status, message string) {
	t.Helper()
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Status, body.Message
}

func TestGateMissingHeader(t *testing.T) {
	_, _, handler, _ := gateTestSetup(t)

	rec := doGateRequest(handler, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	status, message := decodeErrorBody(t, rec)
	assert.Equal(t, "fail", status)
	assert.Equal(t, "You are not logged in! Please log in to get access.", message)
}

func TestGateBearerWithoutToken(t *testing.T) {
	_, _, handler, _ := gateTestSetup(t)

	// A header of exactly "Bearer" with no token part is treated as absent.
	rec := doGateRequest(handler, "Bearer")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeErrorBody(t, rec)
	assert.Equal(t, "You are not logged in! Please log in to get access.", message)
}

func TestGateWrongScheme(t *testing.T) {
	svc, user, handler, _ := gateTestSetup(t)

	token, err := svc.SignToken(user.ID)
	require.NoError(t, err)

	rec := doGateRequest(handler, "Basic "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeErrorBody(t, rec)
	assert.Equal(t, "You are not logged in! Please log in to get access.", message)
}

func TestGateMalformedToken(t *testing.T) {
	_, _, handler, _ := gateTestSetup(t)

	rec := doGateRequest(handler, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	status, message := decodeErrorBody(t, rec)
	assert.Equal(t, "fail", status)
	// The verification error is surfaced, not flattened into the
	// not-logged-in message.
	assert.NotEqual(t, "You are not logged in! Please log in to get access.", message)
}

func TestGateExpiredToken(t *testing.T) {
	store := &fakeUserStore{}
	svc := newTestService(store)
	reg, err := svc.Register(context.Background(), RegisterRequest{Name: "Jo", Email: "jo@x.com", Password: "secret1"})
	require.NoError(t, err)

	expiredSigner := NewService(store, config.AuthConfig{JWTSecret: "test-secret", TokenTTL: -time.Minute})
	token, err := expiredSigner.SignToken(reg.User.ID)
	require.NoError(t, err)

	handler := RequireUser(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an expired token")
	}))
	rec := doGateRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeErrorBody(t, rec)
	assert.Contains(t, message, "expired")
}

func TestGateDeletedUser(t *testing.T) {
	svc, _, handler, _ := gateTestSetup(t)

	// A well-formed token whose subject never existed in the store.
	token, err := svc.SignToken("1b671a64-40d5-491e-99b0-da01ff1f3341")
	require.NoError(t, err)

	rec := doGateRequest(handler, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	_, message := decodeErrorBody(t, rec)
	assert.Equal(t, "The user belonging to this token no longer exists.", message)
}

func TestGateSuccessAttachesIdentity(t *testing.T) {
	svc, user, handler, seen := gateTestSetup(t)

	token, err := svc.SignToken(user.ID)
	require.NoError(t, err)

	rec := doGateRequest(handler, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, seen.ID)
	assert.Equal(t, "Jo", seen.Name)
	assert.Equal(t, "jo@x.com", seen.Email)
	assert.False(t, seen.CreatedAt.IsZero())
}

func TestUserFromContextAbsent(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}
