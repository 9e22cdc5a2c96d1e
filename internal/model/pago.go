package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MetodoPagoEfectivo      = "Efectivo"
	MetodoPagoTransferencia = "Transferencia"
	MetodoPagoTarjeta       = "Tarjeta"

	EstadoPagoRegistrado = "Registrado"
	EstadoPagoAnulado    = "Anulado"
)

// Pago is a payment against a Membresia. Monto is the final amount after the
// membership discount; it is never taken from the request.
type Pago struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MembresiaID  uuid.UUID       `gorm:"column:id_membresia;type:uuid;index;not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago   string          `gorm:"type:varchar(20);not null"`
	FechaPago    time.Time       `gorm:"not null"`
	Comprobante  *string
	Referencia   string     `gorm:"not null"`
	ProcesadoPor *uuid.UUID `gorm:"type:uuid"`
	Estado       string     `gorm:"type:varchar(20);not null;default:'Registrado'"`
	Notas        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Membresia *Membresia `gorm:"foreignKey:MembresiaID"`
}

func (Pago) TableName() string { return "pagos" }
