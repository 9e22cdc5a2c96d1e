package model

import (
	"time"

	"github.com/google/uuid"
)

// Role names seeded by the initial migration.
const (
	RolAdmin      = "admin"
	RolRecepcion  = "recepcion"
	RolEntrenador = "entrenador"
	RolCliente    = "cliente"
)

type Rol struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"uniqueIndex;not null"`
	Descripcion   *string
	FechaCreacion time.Time `gorm:"not null;default:now()"`
}

func (Rol) TableName() string { return "roles" }

// UsuarioRol assigns an additional role to a user.
type UsuarioRol struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID       uuid.UUID `gorm:"column:id_usuario;type:uuid;not null"`
	RolID           uuid.UUID `gorm:"column:id_rol;type:uuid;not null"`
	FechaAsignacion time.Time `gorm:"not null;default:now()"`
}

func (UsuarioRol) TableName() string { return "usuarios_roles" }
