package model

import (
	"time"

	"github.com/google/uuid"
)

// CategoriaEquipo groups gym equipment (cardio, fuerza, peso libre...).
type CategoriaEquipo struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreCategoria string    `gorm:"uniqueIndex;not null"`
	Descripcion     *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (CategoriaEquipo) TableName() string { return "categorias_equipo" }
