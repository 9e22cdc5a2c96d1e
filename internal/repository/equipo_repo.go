package repository

import (
	"context"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EquipoFilter struct {
	CategoriaID *uuid.UUID
	Estado      string
}

type EquipoRepository interface {
	DB() *gorm.DB
	Crear(ctx context.Context, e *model.Equipo) error
	Listar(ctx context.Context, f EquipoFilter) ([]model.Equipo, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Equipo, error)
	Actualizar(ctx context.Context, e *model.Equipo) error
	// CambiarEstadoTx is used by maintenance transitions.
	CambiarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	Eliminar(ctx context.Context, id uuid.UUID) (int64, error)
}

type equipoRepository struct{ db *gorm.DB }

func NewEquipoRepository(db *gorm.DB) EquipoRepository { return &equipoRepository{db: db} }

func (r *equipoRepository) DB() *gorm.DB { return r.db }

func (r *equipoRepository) Crear(ctx context.Context, e *model.Equipo) error {
	return translate(r.db.WithContext(ctx).Omit("Categoria").Create(e).Error)
}

func (r *equipoRepository) Listar(ctx context.Context, f EquipoFilter) ([]model.Equipo, error) {
	var list []model.Equipo
	q := r.db.WithContext(ctx).Joins("Categoria").Order("equipos.nombre_equipo asc")
	if f.CategoriaID != nil {
		q = q.Where("equipos.id_categoria = ?", *f.CategoriaID)
	}
	if f.Estado != "" {
		q = q.Where("equipos.estado = ?", f.Estado)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *equipoRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Equipo, error) {
	var e model.Equipo
	err := r.db.WithContext(ctx).Joins("Categoria").First(&e, "equipos.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipoRepository) Actualizar(ctx context.Context, e *model.Equipo) error {
	return translate(r.db.WithContext(ctx).Omit("Categoria").Save(e).Error)
}

func (r *equipoRepository) CambiarEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Equipo{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *equipoRepository) Eliminar(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Equipo{}, "id = ?", id)
	return res.RowsAffected, translate(res.Error)
}
