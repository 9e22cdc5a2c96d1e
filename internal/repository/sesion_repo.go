package repository

import (
	"context"
	"time"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConteoDiario is one row of a per-day count.
type ConteoDiario struct {
	Fecha time.Time
	Total int64
}

type SesionRepository interface {
	Create(ctx context.Context, s *model.Sesion) error
	ListByUsuario(ctx context.Context, usuarioID uuid.UUID, limit int) ([]model.Sesion, error)
	ConteoPorDia(ctx context.Context, desde, hasta time.Time, tz string) ([]ConteoDiario, error)
}

type sesionRepo struct{ db *gorm.DB }

func NewSesionRepository(db *gorm.DB) SesionRepository { return &sesionRepo{db: db} }

func (r *sesionRepo) Create(ctx context.Context, s *model.Sesion) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *sesionRepo) ListByUsuario(ctx context.Context, usuarioID uuid.UUID, limit int) ([]model.Sesion, error) {
	var out []model.Sesion
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", usuarioID).
		Order("fecha_inicio DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ConteoPorDia groups by calendar day in the tz time zone.
func (r *sesionRepo) ConteoPorDia(ctx context.Context, desde, hasta time.Time, tz string) ([]ConteoDiario, error) {
	var rows []ConteoDiario
	err := r.db.WithContext(ctx).Raw(`
		SELECT (fecha_inicio AT TIME ZONE ?)::date AS fecha, COUNT(*) AS total
		FROM sesiones
		WHERE fecha_inicio >= ? AND fecha_inicio < ?
		GROUP BY 1
		ORDER BY 1 DESC`, tz, desde, hasta).Scan(&rows).Error
	return rows, err
}
