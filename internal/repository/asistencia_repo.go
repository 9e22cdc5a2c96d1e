package repository

import (
	"context"
	"time"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AsistenciaFilter narrows attendance listings. Zero values mean "no filter".
type AsistenciaFilter struct {
	UsuarioID *uuid.UUID
	Desde     *time.Time
	Hasta     *time.Time // exclusive upper bound
	Abiertas  bool
	Limit     int
	Offset    int
}

// AsistenciaConUsuario is an attendance row joined with its user's names.
type AsistenciaConUsuario struct {
	model.Asistencia
	Username string
	Nombre   string
	Apellido string
}

// ResumenDiario aggregates attendance for one calendar day.
type ResumenDiario struct {
	Fecha            time.Time
	TotalAsistencias int64
	UsuariosUnicos   int64
}

type AsistenciaRepository interface {
	DB() *gorm.DB
	// FindAbiertaTx returns the user's open visit (fecha_salida IS NULL),
	// locked FOR UPDATE. gorm.ErrRecordNotFound when there is none.
	FindAbiertaTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.Asistencia, error)
	CreateTx(tx *gorm.DB, a *model.Asistencia) error
	UpdateTx(tx *gorm.DB, a *model.Asistencia) error
	// AbiertasAntesDeTx locks every open visit that checked in before t.
	AbiertasAntesDeTx(tx *gorm.DB, t time.Time) ([]model.Asistencia, error)

	List(ctx context.Context, f AsistenciaFilter) ([]model.Asistencia, error)
	ListConUsuario(ctx context.Context, f AsistenciaFilter) ([]AsistenciaConUsuario, int64, error)
	ResumenPorDia(ctx context.Context, desde, hasta time.Time, tz string) ([]ResumenDiario, error)
}

type asistenciaRepo struct{ db *gorm.DB }

func NewAsistenciaRepository(db *gorm.DB) AsistenciaRepository { return &asistenciaRepo{db: db} }

func (r *asistenciaRepo) DB() *gorm.DB { return r.db }

func (r *asistenciaRepo) FindAbiertaTx(tx *gorm.DB, usuarioID uuid.UUID) (*model.Asistencia, error) {
	var a model.Asistencia
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_usuario = ? AND fecha_salida IS NULL", usuarioID).
		Order("fecha_entrada DESC").
		First(&a).Error
	return &a, err
}

func (r *asistenciaRepo) CreateTx(tx *gorm.DB, a *model.Asistencia) error {
	return translate(tx.Create(a).Error)
}

func (r *asistenciaRepo) UpdateTx(tx *gorm.DB, a *model.Asistencia) error {
	return translate(tx.Model(a).Select("fecha_salida", "duracion_minutos", "notas", "updated_at").Updates(a).Error)
}

func (r *asistenciaRepo) AbiertasAntesDeTx(tx *gorm.DB, t time.Time) ([]model.Asistencia, error) {
	var list []model.Asistencia
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("fecha_salida IS NULL AND fecha_entrada < ?", t).
		Find(&list).Error
	return list, err
}

func (r *asistenciaRepo) applyFilter(q *gorm.DB, f AsistenciaFilter) *gorm.DB {
	if f.UsuarioID != nil {
		q = q.Where("asistencias.id_usuario = ?", *f.UsuarioID)
	}
	if f.Desde != nil {
		q = q.Where("asistencias.fecha_entrada >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("asistencias.fecha_entrada < ?", *f.Hasta)
	}
	if f.Abiertas {
		q = q.Where("asistencias.fecha_salida IS NULL")
	}
	return q
}

func (r *asistenciaRepo) List(ctx context.Context, f AsistenciaFilter) ([]model.Asistencia, error) {
	var list []model.Asistencia
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.Asistencia{}), f).
		Order("fecha_entrada DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *asistenciaRepo) ListConUsuario(ctx context.Context, f AsistenciaFilter) ([]AsistenciaConUsuario, int64, error) {
	base := r.applyFilter(
		r.db.WithContext(ctx).Table("asistencias").Joins("JOIN usuarios u ON u.id = asistencias.id_usuario"),
		f,
	).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AsistenciaConUsuario
	q := base.Select("asistencias.*, u.username, u.nombre, u.apellido").Order("asistencias.fecha_entrada DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Scan(&rows).Error
	return rows, total, err
}

func (r *asistenciaRepo) ResumenPorDia(ctx context.Context, desde, hasta time.Time, tz string) ([]ResumenDiario, error) {
	var rows []ResumenDiario
	err := r.db.WithContext(ctx).Raw(`
		SELECT (fecha_entrada AT TIME ZONE ?)::date AS fecha,
		       COUNT(*)                   AS total_asistencias,
		       COUNT(DISTINCT id_usuario) AS usuarios_unicos
		FROM asistencias
		WHERE estado_acceso = ? AND fecha_entrada >= ? AND fecha_entrada < ?
		GROUP BY 1
		ORDER BY 1 DESC`, tz, model.EstadoAccesoPermitido, desde, hasta).Scan(&rows).Error
	return rows, err
}
