package repository

import (
	"context"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MantenimientoFilter struct {
	EquipoID *uuid.UUID
	Estado   string
}

type MantenimientoRepository interface {
	CrearTx(tx *gorm.DB, m *model.Mantenimiento) error
	Listar(ctx context.Context, f MantenimientoFilter) ([]model.Mantenimiento, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Mantenimiento, error)
	ActualizarTx(tx *gorm.DB, m *model.Mantenimiento) error
	Eliminar(ctx context.Context, id uuid.UUID) (int64, error)
}

type mantenimientoRepository struct{ db *gorm.DB }

func NewMantenimientoRepository(db *gorm.DB) MantenimientoRepository {
	return &mantenimientoRepository{db: db}
}

func (r *mantenimientoRepository) CrearTx(tx *gorm.DB, m *model.Mantenimiento) error {
	return translate(tx.Create(m).Error)
}

func (r *mantenimientoRepository) Listar(ctx context.Context, f MantenimientoFilter) ([]model.Mantenimiento, error) {
	var list []model.Mantenimiento
	q := r.db.WithContext(ctx).Order("fecha_programada desc")
	if f.EquipoID != nil {
		q = q.Where("id_equipo = ?", *f.EquipoID)
	}
	if f.Estado != "" {
		q = q.Where("estado = ?", f.Estado)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *mantenimientoRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Mantenimiento, error) {
	var m model.Mantenimiento
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mantenimientoRepository) ActualizarTx(tx *gorm.DB, m *model.Mantenimiento) error {
	return translate(tx.Save(m).Error)
}

func (r *mantenimientoRepository) Eliminar(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Mantenimiento{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
