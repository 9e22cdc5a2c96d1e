package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Usuario.Estado values. Deleting a user only moves it to inactivo.
const (
	EstadoUsuarioActivo     = "activo"
	EstadoUsuarioInactivo   = "inactivo"
	EstadoUsuarioSuspendido = "suspendido"
)

// Usuario stores every person that can log in: staff and gym clients alike.
// RolID is the primary role; extra roles live in usuarios_roles.
type Usuario struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RolID           uuid.UUID `gorm:"column:id_rol;type:uuid;not null"`
	Nombre          string    `gorm:"not null"`
	Apellido        string    `gorm:"not null"`
	Email           string    `gorm:"uniqueIndex;not null"`
	Telefono        *string
	FechaNacimiento *datatypes.Date
	Genero          *string `gorm:"type:varchar(10)"` // M | F | Otros
	FotoPerfil      *string
	Username        string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	Estado          string `gorm:"type:varchar(20);not null;default:'activo'"`
	FechaRegistro   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Rol *Rol `gorm:"foreignKey:RolID"`
}

func (Usuario) TableName() string { return "usuarios" }

// Activo reports whether the user may authenticate.
func (u *Usuario) Activo() bool { return u.Estado == EstadoUsuarioActivo }

// Cliente is the gym-member profile attached 1:1 to a Usuario.
type Cliente struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID          uuid.UUID `gorm:"column:id_usuario;type:uuid;uniqueIndex;not null"`
	TipoSangre         *string   `gorm:"type:varchar(5)"`
	PesoActual         *float64
	Altura             *float64
	CondicionesMedicas *string
	ContactoEmergencia *string
	TelefonoEmergencia *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Cliente) TableName() string { return "clientes" }
