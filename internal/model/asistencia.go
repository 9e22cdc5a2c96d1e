package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TipoAccesoQR     = "QR"
	TipoAccesoManual = "Manual"

	EstadoAccesoPermitido = "Permitido"
	EstadoAccesoDenegado  = "Denegado"
)

// Asistencia is one gym visit. A row with FechaSalida == nil is "open";
// the database allows at most one open row per user (uq_asistencias_abierta).
type Asistencia struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID       uuid.UUID  `gorm:"column:id_usuario;type:uuid;index;not null"`
	CodigoQRID      *uuid.UUID `gorm:"column:id_codigo_qr;type:uuid"`
	FechaEntrada    time.Time  `gorm:"not null"`
	FechaSalida     *time.Time
	DuracionMinutos *int
	TipoAcceso      string `gorm:"type:varchar(10);not null"`
	EstadoAcceso    string `gorm:"type:varchar(10);not null;default:'Permitido'"`
	Notas           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Asistencia) TableName() string { return "asistencias" }

// Abierta reports whether the visit has not been checked out yet.
func (a *Asistencia) Abierta() bool { return a.FechaSalida == nil }

// Cerrar checks the visit out at t. Duration is whole minutes, never negative.
func (a *Asistencia) Cerrar(t time.Time) {
	if t.Before(a.FechaEntrada) {
		t = a.FechaEntrada
	}
	mins := int(t.Sub(a.FechaEntrada) / time.Minute)
	a.FechaSalida = &t
	a.DuracionMinutos = &mins
}
