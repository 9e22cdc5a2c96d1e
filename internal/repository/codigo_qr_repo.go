package repository

import (
	"context"
	"time"

	"gimnasio/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// issuanceLockKey is the pg_advisory_xact_lock key held while a code is issued.
const issuanceLockKey = 7_342_001

type CodigoQRRepository interface {
	DB() *gorm.DB
	// LockIssuanceTx serializes issuers for the rest of tx.
	LockIssuanceTx(tx *gorm.DB) error
	// FindActivoTx returns the row with estado = true (expired or not).
	FindActivoTx(tx *gorm.DB) (*model.CodigoQR, error)
	ExistsTx(tx *gorm.DB, codigo string) (bool, error)
	DeactivateTx(tx *gorm.DB, c *model.CodigoQR) error
	CreateTx(tx *gorm.DB, c *model.CodigoQR) error

	FindByCodigo(ctx context.Context, codigo string) (*model.CodigoQR, error)
	FindVigente(ctx context.Context, now time.Time) (*model.CodigoQR, error)
	List(ctx context.Context, limit int) ([]model.CodigoQR, error)
}

type codigoQRRepo struct{ db *gorm.DB }

func NewCodigoQRRepository(db *gorm.DB) CodigoQRRepository { return &codigoQRRepo{db: db} }

func (r *codigoQRRepo) DB() *gorm.DB { return r.db }

func (r *codigoQRRepo) LockIssuanceTx(tx *gorm.DB) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", issuanceLockKey).Error
}

func (r *codigoQRRepo) FindActivoTx(tx *gorm.DB) (*model.CodigoQR, error) {
	var c model.CodigoQR
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("estado = true").
		Order("fecha_generacion DESC").
		First(&c).Error
	return &c, err
}

func (r *codigoQRRepo) ExistsTx(tx *gorm.DB, codigo string) (bool, error) {
	var n int64
	err := tx.Model(&model.CodigoQR{}).Where("codigo_qr = ?", codigo).Count(&n).Error
	return n > 0, err
}

func (r *codigoQRRepo) DeactivateTx(tx *gorm.DB, c *model.CodigoQR) error {
	return tx.Model(c).Updates(map[string]any{
		"estado":           false,
		"fecha_expiracion": c.FechaExpiracion,
	}).Error
}

func (r *codigoQRRepo) CreateTx(tx *gorm.DB, c *model.CodigoQR) error {
	return translate(tx.Create(c).Error)
}

func (r *codigoQRRepo) FindByCodigo(ctx context.Context, codigo string) (*model.CodigoQR, error) {
	var c model.CodigoQR
	err := r.db.WithContext(ctx).Where("codigo_qr = ?", codigo).First(&c).Error
	return &c, err
}

func (r *codigoQRRepo) FindVigente(ctx context.Context, now time.Time) (*model.CodigoQR, error) {
	var c model.CodigoQR
	err := r.db.WithContext(ctx).
		Where("estado = true AND fecha_expiracion > ?", now).
		First(&c).Error
	return &c, err
}

func (r *codigoQRRepo) List(ctx context.Context, limit int) ([]model.CodigoQR, error) {
	var list []model.CodigoQR
	err := r.db.WithContext(ctx).Order("fecha_generacion DESC").Limit(limit).Find(&list).Error
	return list, err
}
