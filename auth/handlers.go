package auth

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/user/taskvault-go/apperror"
)

// Handlers wraps the auth Service with HTTP handlers.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new user and returns the created user plus a token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} auth.AuthResponse "User created"
// @Failure 400 {object} apperror.ErrorResponse "Validation failure or duplicate email"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		result, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		// The hash is already json-excluded; clearing it as well keeps it
		// out of any future serialization path.
		result.User.Password = ""
		WriteJSON(w, http.StatusCreated, AuthResponse{
			Status: "success",
			Token:  result.Token,
			Data:   AuthUserData{User: result.User},
		})
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Logs in an existing user and returns the user plus a token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} auth.AuthResponse "Login successful"
// @Failure 400 {object} apperror.ErrorResponse "Missing fields"
// @Failure 401 {object} apperror.ErrorResponse "Bad credentials"
// @Failure 500 {object} apperror.ErrorResponse "Internal Server Error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		result, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		result.User.Password = ""
		WriteJSON(w, http.StatusOK, AuthResponse{
			Status: "success",
			Token:  result.Token,
			Data:   AuthUserData{User: result.User},
		})
	}
}

// WriteJSON serializes data to the response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"status":"error","message":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteError is the terminal error handler: every error, operational or not,
// funnels through here, gets logged with the request that caused it, and
// becomes a {status, message} body. Errors that are not AppErrors default to
// a generic 500. Client errors log at warn level, server errors at error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("Internal Server Error", err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).WithError(err)
	if appErr.StatusCode() >= 500 {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
