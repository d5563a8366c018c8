package dto

// RegisterRequest carries the credentials for a new account. The password
// must be entered twice; the byte-equality check lives in the auth service
// so the mismatch maps to its dedicated error kind.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=30"`
	Password  string `json:"password" validate:"required,max=100"`
	Password2 string `json:"password2" validate:"required,max=100"`
}

// LoginRequest carries existing credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=30"`
	Password string `json:"password" validate:"required,max=100"`
}

// SessionResponse is the bearer token handed out on login, register and me.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}
