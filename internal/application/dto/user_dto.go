package dto

// RegisterRequest entrada para registro contra el backend.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest entrada para login: identifier es usuario o email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UserResponse usuario del backend (sin credenciales).
type UserResponse struct {
	ID         int    `json:"id"`
	DocumentID string `json:"documentId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Confirmed  bool   `json:"confirmed"`
	Blocked    bool   `json:"blocked"`
}

// LoginResponse token de sesión de kiosco más el usuario.
type LoginResponse struct {
	Token     string       `json:"token"`
	SessionID string       `json:"session_id"`
	User      UserResponse `json:"user"`
}
