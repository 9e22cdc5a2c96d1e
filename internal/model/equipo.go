package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	EstadoEquipoOperativo       = "Operativo"
	EstadoEquipoEnMantenimiento = "EnMantenimiento"
	EstadoEquipoFueraDeServicio = "FueraDeServicio"

	TipoMantenimientoPreventivo = "Preventivo"
	TipoMantenimientoCorrectivo = "Correctivo"

	EstadoMantenimientoProgramado = "Programado"
	EstadoMantenimientoEnProceso  = "EnProceso"
	EstadoMantenimientoCompletado = "Completado"
	EstadoMantenimientoCancelado  = "Cancelado"
)

// Equipo is a physical machine or accessory on the gym floor.
type Equipo struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoriaID  uuid.UUID `gorm:"column:id_categoria;type:uuid;index;not null"`
	NombreEquipo string    `gorm:"not null"`
	Marca        *string
	Modelo       *string
	NumeroSerie  *string `gorm:"uniqueIndex"`
	Descripcion  *string
	FechaCompra  *datatypes.Date
	Costo        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Ubicacion    *string
	Estado       string `gorm:"type:varchar(20);not null;default:'Operativo'"`
	Foto         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *CategoriaEquipo `gorm:"foreignKey:CategoriaID"`
}

func (Equipo) TableName() string { return "equipos" }

// Mantenimiento is a scheduled or performed service on an Equipo.
type Mantenimiento struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EquipoID             uuid.UUID `gorm:"column:id_equipo;type:uuid;index;not null"`
	TipoMantenimiento    string    `gorm:"type:varchar(20);not null"`
	FechaProgramada      datatypes.Date
	FechaRealizada       *datatypes.Date
	DescripcionTrabajo   *string
	TecnicoResponsable   *string
	Costo                *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Estado               string           `gorm:"type:varchar(20);not null;default:'Programado'"`
	ProximoMantenimiento *datatypes.Date
	Notas                *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Mantenimiento) TableName() string { return "mantenimientos" }
