package repository

import (
	"context"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RolRepository interface {
	Create(ctx context.Context, r *model.Rol) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error)
	FindByNombre(ctx context.Context, nombre string) (*model.Rol, error)
	List(ctx context.Context) ([]model.Rol, error)
	Update(ctx context.Context, r *model.Rol) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	// ListUsuarios returns users whose primary or extra role is rolID.
	ListUsuarios(ctx context.Context, rolID uuid.UUID) ([]model.Usuario, error)
}

type rolRepo struct{ db *gorm.DB }

func NewRolRepository(db *gorm.DB) RolRepository { return &rolRepo{db: db} }

func (r *rolRepo) Create(ctx context.Context, rol *model.Rol) error {
	return translate(r.db.WithContext(ctx).Create(rol).Error)
}

func (r *rolRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).First(&rol, "id = ?", id).Error
	return &rol, err
}

func (r *rolRepo) FindByNombre(ctx context.Context, nombre string) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&rol).Error
	return &rol, err
}

func (r *rolRepo) List(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("nombre").Find(&roles).Error
	return roles, err
}

func (r *rolRepo) Update(ctx context.Context, rol *model.Rol) error {
	return translate(r.db.WithContext(ctx).Save(rol).Error)
}

func (r *rolRepo) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Rol{}, "id = ?", id)
	return res.RowsAffected, translate(res.Error)
}

func (r *rolRepo) ListUsuarios(ctx context.Context, rolID uuid.UUID) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).
		Where("id_rol = ? OR id IN (SELECT id_usuario FROM usuarios_roles WHERE id_rol = ?)", rolID, rolID).
		Order("apellido, nombre").
		Find(&users).Error
	return users, err
}
