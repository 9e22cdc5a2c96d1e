package repository

import (
	"context"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaEquipoRepository defines CRUD operations for CategoriaEquipo.
type CategoriaEquipoRepository interface {
	Crear(ctx context.Context, c *model.CategoriaEquipo) error
	Listar(ctx context.Context) ([]model.CategoriaEquipo, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.CategoriaEquipo, error)
	ObtenerPorNombre(ctx context.Context, nombre string) (*model.CategoriaEquipo, error)
	Actualizar(ctx context.Context, c *model.CategoriaEquipo) error
	Eliminar(ctx context.Context, id uuid.UUID) (int64, error)
	ContarEquipos(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoriaEquipoRepository struct{ db *gorm.DB }

func NewCategoriaEquipoRepository(db *gorm.DB) CategoriaEquipoRepository {
	return &categoriaEquipoRepository{db: db}
}

func (r *categoriaEquipoRepository) Crear(ctx context.Context, c *model.CategoriaEquipo) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *categoriaEquipoRepository) Listar(ctx context.Context) ([]model.CategoriaEquipo, error) {
	var list []model.CategoriaEquipo
	err := r.db.WithContext(ctx).Order("nombre_categoria asc").Find(&list).Error
	return list, err
}

func (r *categoriaEquipoRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.CategoriaEquipo, error) {
	var c model.CategoriaEquipo
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaEquipoRepository) ObtenerPorNombre(ctx context.Context, nombre string) (*model.CategoriaEquipo, error) {
	var c model.CategoriaEquipo
	err := r.db.WithContext(ctx).Where("lower(nombre_categoria) = lower(?)", nombre).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaEquipoRepository) Actualizar(ctx context.Context, c *model.CategoriaEquipo) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *categoriaEquipoRepository) Eliminar(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.CategoriaEquipo{}, "id = ?", id)
	return res.RowsAffected, translate(res.Error)
}

func (r *categoriaEquipoRepository) ContarEquipos(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Equipo{}).Where("id_categoria = ?", id).Count(&n).Error
	return n, err
}
