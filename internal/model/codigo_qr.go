package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TipoCodigoDiario = "Diario"
	TipoCodigoUnico  = "Unico"
	TipoCodigoManual = "Manual"
)

// CodigoQR is a time-bounded credential shown at the entrance and scanned on
// check-in. The database allows a single row with Estado = true
// (uq_codigos_qr_activo); superseded codes are deactivated, never deleted.
type CodigoQR struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo          string    `gorm:"column:codigo_qr;type:varchar(100);uniqueIndex;not null"`
	FechaGeneracion time.Time `gorm:"not null"`
	FechaExpiracion time.Time `gorm:"not null"`
	Estado          bool      `gorm:"not null"`
	TipoCodigo      string    `gorm:"type:varchar(10);not null;default:'Diario'"`
}

func (CodigoQR) TableName() string { return "codigos_qr_acceso" }

// Vigente reports whether the code is active and not expired at t.
func (c *CodigoQR) Vigente(t time.Time) bool {
	return c.Estado && c.FechaExpiracion.After(t)
}
