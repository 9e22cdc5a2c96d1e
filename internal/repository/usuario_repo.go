package repository

import (
	"context"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UsuarioRepository interface {
	// DB returns the underlying *gorm.DB for callers that open transactions.
	DB() *gorm.DB
	Create(ctx context.Context, u *model.Usuario) error
	// CreateTx is used inside the registration transaction.
	CreateTx(tx *gorm.DB, u *model.Usuario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error)
	// FindByLogin accepts a username or an email (case-insensitive).
	FindByLogin(ctx context.Context, login string) (*model.Usuario, error)
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	// LockByIDTx loads the user with SELECT … FOR UPDATE.
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error)
	List(ctx context.Context, estado string) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	SetEstado(ctx context.Context, id uuid.UUID, estado string) (int64, error)

	// NombresDeRoles returns the primary role plus every assigned extra role.
	NombresDeRoles(ctx context.Context, id uuid.UUID) ([]string, error)
	RolesAsignados(ctx context.Context, id uuid.UUID) ([]model.Rol, error)
	AsignarRol(ctx context.Context, ur *model.UsuarioRol) error
	RemoverRol(ctx context.Context, usuarioID, rolID uuid.UUID) (int64, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return translate(r.db.WithContext(ctx).Omit("Rol").Create(u).Error)
}

func (r *usuarioRepo) CreateTx(tx *gorm.DB, u *model.Usuario) error {
	return translate(tx.Omit("Rol").Create(u).Error)
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Joins("Rol").First(&u, "usuarios.id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) FindByLogin(ctx context.Context, login string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Joins("Rol").
		Where("usuarios.username = ? OR LOWER(usuarios.email) = LOWER(?)", login, login).
		First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Joins("Rol").Where("usuarios.username = ?", username).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Usuario, error) {
	var u model.Usuario
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, estado string) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx).Joins("Rol").Order("usuarios.apellido, usuarios.nombre")
	if estado != "" {
		q = q.Where("usuarios.estado = ?", estado)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return translate(r.db.WithContext(ctx).Omit("Rol").Save(u).Error)
}

func (r *usuarioRepo) SetEstado(ctx context.Context, id uuid.UUID, estado string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", id).Update("estado", estado)
	return res.RowsAffected, res.Error
}

func (r *usuarioRepo) NombresDeRoles(ctx context.Context, id uuid.UUID) ([]string, error) {
	var nombres []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT r.nombre FROM usuarios u JOIN roles r ON r.id = u.id_rol WHERE u.id = ?
		UNION
		SELECT r.nombre FROM usuarios_roles ur JOIN roles r ON r.id = ur.id_rol WHERE ur.id_usuario = ?`,
		id, id).Scan(&nombres).Error
	return nombres, err
}

func (r *usuarioRepo) RolesAsignados(ctx context.Context, id uuid.UUID) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).
		Joins("JOIN usuarios_roles ur ON ur.id_rol = roles.id").
		Where("ur.id_usuario = ?", id).
		Order("roles.nombre").
		Find(&roles).Error
	return roles, err
}

func (r *usuarioRepo) AsignarRol(ctx context.Context, ur *model.UsuarioRol) error {
	return translate(r.db.WithContext(ctx).Create(ur).Error)
}

func (r *usuarioRepo) RemoverRol(ctx context.Context, usuarioID, rolID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id_usuario = ? AND id_rol = ?", usuarioID, rolID).
		Delete(&model.UsuarioRol{})
	return res.RowsAffected, res.Error
}
