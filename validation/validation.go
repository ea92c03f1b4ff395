// Package validation holds the request-body schemas and the middleware that
// enforces them. Validation runs before the authentication gate, collects
// every field error, and joins them into one comma-separated message.
// Unknown body fields are rejected rather than silently stripped.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/user/taskvault-go/apperror"
	"github.com/user/taskvault-go/auth"
)

// maxBodyBytes caps request bodies at 10kb, as the original deployment did.
const maxBodyBytes = 10 << 10

var validate = validator.New(validator.WithRequiredStructEnabled())

// Schema is one request-body contract: a payload prototype, per-field
// messages that override the library defaults, and optional object-level
// checks that the tag language cannot express.
type Schema struct {
	newPayload func() interface{}
	messages   map[string]string
	extra      func(payload interface{}) []string
}

// check validates a decoded payload and returns every failure message.
func (s *Schema) check(payload interface{}) []string {
	var msgs []string
	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if m, ok := s.messages[fe.StructField()+"."+fe.Tag()]; ok {
					msgs = append(msgs, m)
				} else {
					msgs = append(msgs, fe.Error())
				}
			}
		} else {
			msgs = append(msgs, err.Error())
		}
	}
	if s.extra != nil {
		msgs = append(msgs, s.extra(payload)...)
	}
	return msgs
}

type registerPayload struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createTaskPayload struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type updateTaskPayload struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Completed   *bool   `json:"completed"`
}

// Register validates POST /auth/register bodies.
var Register = &Schema{
	newPayload: func() interface{} { return &registerPayload{} },
	messages: map[string]string{
		"Name.required":     "Name is required",
		"Name.min":          "Name must be at least 2 characters long",
		"Name.max":          "Name cannot be more than 50 characters long",
		"Email.required":    "Email is required",
		"Email.email":       "Please provide a valid email address",
		"Password.required": "Password is required",
		"Password.min":      "Password must be at least 6 characters long",
	},
}

// Login validates POST /auth/login bodies.
var Login = &Schema{
	newPayload: func() interface{} { return &loginPayload{} },
	messages: map[string]string{
		"Email.required":    "Email is required",
		"Email.email":       "Please provide a valid email address",
		"Password.required": "Password is required",
	},
}

// CreateTask validates POST /tasks bodies. An empty description is allowed.
var CreateTask = &Schema{
	newPayload: func() interface{} { return &createTaskPayload{} },
	messages: map[string]string{
		"Title.required":  "Title is required",
		"Title.min":       "Title must be at least 1 character long",
		"Title.max":       "Title cannot be more than 100 characters long",
		"Description.max": "Description cannot be more than 500 characters long",
	},
}

// UpdateTask validates PATCH /tasks/{id} bodies: every field is optional but
// at least one must be present.
var UpdateTask = &Schema{
	newPayload: func() interface{} { return &updateTaskPayload{} },
	messages: map[string]string{
		"Title.min":       "Title must be at least 1 character long",
		"Title.max":       "Title cannot be more than 100 characters long",
		"Description.max": "Description cannot be more than 500 characters long",
	},
	extra: func(payload interface{}) []string {
		p := payload.(*updateTaskPayload)
		if p.Title == nil && p.Description == nil && p.Completed == nil {
			return []string{"At least one field (title, description or completed) must be provided"}
		}
		return nil
	},
}

// Body returns middleware enforcing a schema against the request body. The
// body is read once, validated, and then restored so the downstream handler
// can decode it into its own DTO.
func Body(schema *Schema) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			body, err := io.ReadAll(r.Body)
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					auth.WriteError(w, r, apperror.NewPayloadTooLargeError("request entity too large", err))
					return
				}
				auth.WriteError(w, r, apperror.NewValidationError("unreadable request body", err))
				return
			}

			payload := schema.newPayload()
			if len(bytes.TrimSpace(body)) > 0 {
				dec := json.NewDecoder(bytes.NewReader(body))
				dec.DisallowUnknownFields()
				if err := dec.Decode(payload); err != nil {
					auth.WriteError(w, r, apperror.NewValidationError(decodeMessage(err), err))
					return
				}
			}

			if msgs := schema.check(payload); len(msgs) > 0 {
				auth.WriteError(w, r, apperror.NewValidationError(strings.Join(msgs, ", "), nil))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// decodeMessage turns json decoding failures into user-facing messages,
// giving rejected unknown fields their own wording.
func decodeMessage(err error) string {
	const unknownPrefix = "json: unknown field "
	if msg := err.Error(); strings.HasPrefix(msg, unknownPrefix) {
		return fmt.Sprintf("Unknown field %s is not allowed", strings.TrimPrefix(msg, unknownPrefix))
	}
	return "Invalid request body: " + err.Error()
}
