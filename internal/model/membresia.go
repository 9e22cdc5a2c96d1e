package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	EstadoPlanActiva   = "Activa"
	EstadoPlanInactiva = "Inactiva"

	EstadoMembresiaActiva     = "Activa"
	EstadoMembresiaVencida    = "Vencida"
	EstadoMembresiaSuspendida = "Suspendida"
	EstadoMembresiaCancelada  = "Cancelada"
)

// PlanMembresia is a membership tier: price, duration and feature flags.
type PlanMembresia struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombrePlan             string          `gorm:"uniqueIndex;not null"`
	Descripcion            *string
	Precio                 decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DuracionDias           int             `gorm:"not null"`
	AccesoGimnasio         bool            `gorm:"not null"`
	AccesoEntrenador       bool            `gorm:"not null"`
	AccesoAsistenteVirtual bool            `gorm:"not null"`
	Estado                 string          `gorm:"type:varchar(20);not null;default:'Activa'"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (PlanMembresia) TableName() string { return "planes_membresia" }

// Membresia is one client's subscription to a plan.
// DescuentoAplicado is a percentage (0..100) and is the only discount source
// used when a payment is registered.
type Membresia struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanID            uuid.UUID        `gorm:"column:id_plan;type:uuid;not null"`
	ClienteID         uuid.UUID        `gorm:"column:id_cliente;type:uuid;index;not null"`
	FechaInicio       datatypes.Date   `gorm:"not null"`
	FechaVencimiento  datatypes.Date   `gorm:"not null"`
	Estado            string           `gorm:"type:varchar(20);not null;default:'Activa'"`
	MontoPagado       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DescuentoAplicado *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Notas             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Plan *PlanMembresia `gorm:"foreignKey:PlanID"`
}

func (Membresia) TableName() string { return "membresias" }
