package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest accepts either the username or the email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegistroRequest is the public self-registration payload. It always
// creates a user with the cliente role plus its Cliente profile.
type RegistroRequest struct {
	Nombre          string                `json:"nombre"           validate:"required,min=2,max=100"`
	Apellido        string                `json:"apellido"         validate:"required,min=2,max=100"`
	Email           string                `json:"email"            validate:"required,email,max=150"`
	Telefono        *string               `json:"telefono"         validate:"omitempty,max=30"`
	FechaNacimiento *string               `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Genero          *string               `json:"genero"           validate:"omitempty,oneof=M F Otros"`
	Username        string                `json:"username"         validate:"required,min=3,max=50"`
	Password        string                `json:"password"         validate:"required,min=8"`
	Cliente         *ClientePerfilRequest `json:"cliente"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"` // seconds
	User         UsuarioResponse `json:"user"`
}

type PerfilResponse struct {
	Usuario UsuarioResponse  `json:"usuario"`
	Cliente *ClienteResponse `json:"cliente"`
}
