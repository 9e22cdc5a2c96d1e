package repository

import (
	"context"
	"time"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReciboRow is the joined view pago → membresia → plan → cliente → usuario
// used to print a receipt.
type ReciboRow struct {
	PagoID            uuid.UUID
	Referencia        string
	FechaPago         time.Time
	Monto             decimal.Decimal
	MetodoPago        string
	Estado            string
	Nombre            string
	Apellido          string
	NombrePlan        string
	PrecioPlan        decimal.Decimal
	FechaInicio       time.Time
	FechaVencimiento  time.Time
	MontoPagado       decimal.NullDecimal
	DescuentoAplicado decimal.NullDecimal
}

type PagoRepository interface {
	Create(ctx context.Context, p *model.Pago) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error)
	List(ctx context.Context, membresiaID *uuid.UUID) ([]model.Pago, error)
	Update(ctx context.Context, p *model.Pago) error
	Recibo(ctx context.Context, id uuid.UUID) (*ReciboRow, error)
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) Create(ctx context.Context, p *model.Pago) error {
	return translate(r.db.WithContext(ctx).Omit("Membresia").Create(p).Error)
}

func (r *pagoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pago, error) {
	var p model.Pago
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pagoRepo) List(ctx context.Context, membresiaID *uuid.UUID) ([]model.Pago, error) {
	var pagos []model.Pago
	q := r.db.WithContext(ctx).Order("fecha_pago desc")
	if membresiaID != nil {
		q = q.Where("id_membresia = ?", *membresiaID)
	}
	err := q.Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) Update(ctx context.Context, p *model.Pago) error {
	return translate(r.db.WithContext(ctx).Omit("Membresia").Save(p).Error)
}

func (r *pagoRepo) Recibo(ctx context.Context, id uuid.UUID) (*ReciboRow, error) {
	var row ReciboRow
	res := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS pago_id, p.referencia, p.fecha_pago, p.monto, p.metodo_pago, p.estado,
		       u.nombre, u.apellido,
		       pl.nombre_plan, pl.precio AS precio_plan,
		       m.fecha_inicio, m.fecha_vencimiento, m.monto_pagado, m.descuento_aplicado
		FROM pagos p
		JOIN membresias m ON m.id = p.id_membresia
		JOIN planes_membresia pl ON pl.id = m.id_plan
		JOIN clientes c ON c.id = m.id_cliente
		JOIN usuarios u ON u.id = c.id_usuario
		WHERE p.id = ?`, id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}
