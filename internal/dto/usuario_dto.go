package dto

// ─── Usuarios ────────────────────────────────────────────────────────────────

// UsuarioFilter is bound from the query string of GET /api/usuario.
type UsuarioFilter struct {
	Estado string `form:"estado" validate:"omitempty,oneof=activo inactivo suspendido"`
}

type CrearUsuarioRequest struct {
	Nombre          string                `json:"nombre"           validate:"required,min=2,max=100"`
	Apellido        string                `json:"apellido"         validate:"required,min=2,max=100"`
	Email           string                `json:"email"            validate:"required,email,max=150"`
	Telefono        *string               `json:"telefono"         validate:"omitempty,max=30"`
	FechaNacimiento *string               `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Genero          *string               `json:"genero"           validate:"omitempty,oneof=M F Otros"`
	Username        string                `json:"username"         validate:"required,min=3,max=50"`
	Password        string                `json:"password"         validate:"required,min=8"`
	Rol             string                `json:"rol"              validate:"omitempty,max=50"` // role name; defaults to cliente
	Cliente         *ClientePerfilRequest `json:"cliente"`
}

type ActualizarUsuarioRequest struct {
	Nombre          *string `json:"nombre"           validate:"omitempty,min=2,max=100"`
	Apellido        *string `json:"apellido"         validate:"omitempty,min=2,max=100"`
	Email           *string `json:"email"            validate:"omitempty,email,max=150"`
	Telefono        *string `json:"telefono"         validate:"omitempty,max=30"`
	FechaNacimiento *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Genero          *string `json:"genero"           validate:"omitempty,oneof=M F Otros"`
	Password        *string `json:"password"         validate:"omitempty,min=8"`
	Rol             *string `json:"rol"              validate:"omitempty,max=50"`
	Estado          *string `json:"estado"           validate:"omitempty,oneof=activo inactivo suspendido"`
}

type UsuarioResponse struct {
	ID              string   `json:"id"`
	Rol             string   `json:"rol"`
	Roles           []string `json:"roles,omitempty"`
	Nombre          string   `json:"nombre"`
	Apellido        string   `json:"apellido"`
	Email           string   `json:"email"`
	Telefono        *string  `json:"telefono"`
	FechaNacimiento *string  `json:"fecha_nacimiento"`
	Genero          *string  `json:"genero"`
	FotoPerfil      *string  `json:"foto_perfil"`
	Username        string   `json:"username"`
	Estado          string   `json:"estado"`
	FechaRegistro   string   `json:"fecha_registro"`
}

// ─── Clientes ────────────────────────────────────────────────────────────────

type ClientePerfilRequest struct {
	TipoSangre         *string  `json:"tipo_sangre"         validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	PesoActual         *float64 `json:"peso_actual"         validate:"omitempty,gt=0,lt=500"`
	Altura             *float64 `json:"altura"              validate:"omitempty,gt=0,lt=3"`
	CondicionesMedicas *string  `json:"condiciones_medicas" validate:"omitempty,max=2000"`
	ContactoEmergencia *string  `json:"contacto_emergencia" validate:"omitempty,max=100"`
	TelefonoEmergencia *string  `json:"telefono_emergencia" validate:"omitempty,max=30"`
}

type ClienteResponse struct {
	ID                 string   `json:"id"`
	IDUsuario          string   `json:"id_usuario"`
	TipoSangre         *string  `json:"tipo_sangre"`
	PesoActual         *float64 `json:"peso_actual"`
	Altura             *float64 `json:"altura"`
	CondicionesMedicas *string  `json:"condiciones_medicas"`
	ContactoEmergencia *string  `json:"contacto_emergencia"`
	TelefonoEmergencia *string  `json:"telefono_emergencia"`
}

// ─── Roles ───────────────────────────────────────────────────────────────────

type RolRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,min=3,max=50"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=255"`
}

type RolResponse struct {
	ID            string  `json:"id"`
	Nombre        string  `json:"nombre"`
	Descripcion   *string `json:"descripcion"`
	FechaCreacion string  `json:"fecha_creacion"`
}

type AsignarRolRequest struct {
	IDRol string `json:"id_rol" validate:"required,uuid"`
}

// ─── Sesiones ────────────────────────────────────────────────────────────────

type SesionFilter struct {
	IDUsuario string `form:"id_usuario" validate:"required,uuid"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type SesionResponse struct {
	ID              string  `json:"id"`
	IDUsuario       string  `json:"id_usuario"`
	TokenAnterior   *string `json:"token_anterior"`
	FechaInicio     string  `json:"fecha_inicio"`
	FechaExpiracion string  `json:"fecha_expiracion"`
	Estado          string  `json:"estado"`
	IP              *string `json:"ip"`
	Dispositivo     *string `json:"dispositivo"`
}

// RangoFechas is bound from ?desde=YYYY-MM-DD&hasta=YYYY-MM-DD. Both ends are
// inclusive calendar days.
type RangoFechas struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

type ConteoDiarioResponse struct {
	Fecha string `json:"fecha"`
	Total int64  `json:"total"`
}
