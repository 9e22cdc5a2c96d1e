package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EstadoSesionActiva   = "activa"
	EstadoSesionCerrada  = "cerrada"
	EstadoSesionExpirada = "expirada"
)

// Sesion records the issuance of an access token. TokenID is the JWT jti;
// TokenAnterior links a refreshed session to the one it replaced.
type Sesion struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID       uuid.UUID `gorm:"column:id_usuario;type:uuid;index;not null"`
	TokenID         string    `gorm:"uniqueIndex;not null"`
	TokenAnterior   *string
	FechaInicio     time.Time `gorm:"not null"`
	FechaExpiracion time.Time `gorm:"not null"`
	Estado          string    `gorm:"type:varchar(20);not null;default:'activa'"`
	IP              *string   `gorm:"column:ip"`
	Dispositivo     *string
}

func (Sesion) TableName() string { return "sesiones" }
