package repository

import (
	"context"

	"gimnasio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(ctx context.Context, p *model.PlanMembresia) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PlanMembresia, error)
	List(ctx context.Context, estado string) ([]model.PlanMembresia, error)
	Update(ctx context.Context, p *model.PlanMembresia) error
}

type planRepo struct{ db *gorm.DB }

func NewPlanRepository(db *gorm.DB) PlanRepository { return &planRepo{db: db} }

func (r *planRepo) Create(ctx context.Context, p *model.PlanMembresia) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *planRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PlanMembresia, error) {
	var p model.PlanMembresia
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *planRepo) List(ctx context.Context, estado string) ([]model.PlanMembresia, error) {
	var planes []model.PlanMembresia
	q := r.db.WithContext(ctx).Order("precio asc")
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	err := q.Find(&planes).Error
	return planes, err
}

func (r *planRepo) Update(ctx context.Context, p *model.PlanMembresia) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

// ── Membresias ───────────────────────────────────────────────────────────────

type MembresiaFilter struct {
	ClienteID *uuid.UUID
	Estado    string
}

type MembresiaRepository interface {
	Create(ctx context.Context, m *model.Membresia) error
	// FindByID joins the plan so callers can fall back to its price.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Membresia, error)
	List(ctx context.Context, f MembresiaFilter) ([]model.Membresia, error)
	Update(ctx context.Context, m *model.Membresia) error
}

type membresiaRepo struct{ db *gorm.DB }

func NewMembresiaRepository(db *gorm.DB) MembresiaRepository { return &membresiaRepo{db: db} }

func (r *membresiaRepo) Create(ctx context.Context, m *model.Membresia) error {
	return translate(r.db.WithContext(ctx).Omit("Plan").Create(m).Error)
}

func (r *membresiaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Membresia, error) {
	var m model.Membresia
	err := r.db.WithContext(ctx).Joins("Plan").First(&m, "membresias.id = ?", id).Error
	return &m, err
}

func (r *membresiaRepo) List(ctx context.Context, f MembresiaFilter) ([]model.Membresia, error) {
	var list []model.Membresia
	q := r.db.WithContext(ctx).Joins("Plan").Order("membresias.fecha_inicio desc")
	if f.ClienteID != nil {
		q = q.Where("membresias.id_cliente = ?", *f.ClienteID)
	}
	if f.Estado != "" {
		q = q.Where("membresias.estado = ?", f.Estado)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *membresiaRepo) Update(ctx context.Context, m *model.Membresia) error {
	return translate(r.db.WithContext(ctx).Omit("Plan").Save(m).Error)
}
