// Data transfer objects for the auth endpoints. Schema validation for these
// payloads lives in the validation package and runs before the handlers.
package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Name     string `json:"name" example:"Jo"`
	Email    string `json:"email" example:"jo@example.com"`
	Password string `json:"password" example:"secret1"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" example:"jo@example.com"`
	Password string `json:"password" example:"secret1"`
}

// AuthResponse is returned on successful registration (201) and login (200).
type AuthResponse struct {
	Status string       `json:"status" example:"success"`
	Token  string       `json:"token"`
	Data   AuthUserData `json:"data"`
}

// AuthUserData wraps the user record inside the response envelope.
type AuthUserData struct {
	User *User `json:"user"`
}
