package service

import (
	"context"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var cien = decimal.NewFromInt(100)

type MembresiaService interface {
	Crear(ctx context.Context, req dto.CrearMembresiaRequest) (*dto.MembresiaResponse, error)
	Listar(ctx context.Context, f dto.MembresiaFilter) ([]dto.MembresiaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.MembresiaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMembresiaRequest) (*dto.MembresiaResponse, error)
	// Eliminar marks the membership Cancelada; payments keep referencing it.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type membresiaService struct {
	repo     repository.MembresiaRepository
	planes   repository.PlanRepository
	clientes repository.ClienteRepository
	loc      *time.Location
	now      func() time.Time
}

func NewMembresiaService(
	repo repository.MembresiaRepository,
	planes repository.PlanRepository,
	clientes repository.ClienteRepository,
	loc *time.Location,
) MembresiaService {
	return &membresiaService{repo: repo, planes: planes, clientes: clientes, loc: loc, now: time.Now}
}

func mapMembresia(m *model.Membresia) dto.MembresiaResponse {
	resp := dto.MembresiaResponse{
		ID:                m.ID.String(),
		IDPlan:            m.PlanID.String(),
		IDCliente:         m.ClienteID.String(),
		FechaInicio:       formatFecha(m.FechaInicio),
		FechaVencimiento:  formatFecha(m.FechaVencimiento),
		Estado:            m.Estado,
		MontoPagado:       m.MontoPagado,
		DescuentoAplicado: m.DescuentoAplicado,
		Notas:             m.Notas,
	}
	if m.Plan != nil {
		resp.NombrePlan = m.Plan.NombrePlan
	}
	return resp
}

func validarDescuento(d *decimal.Decimal) error {
	if d == nil {
		return nil
	}
	if d.IsNegative() || d.GreaterThan(cien) {
		return invalido("El descuento debe estar entre 0 y 100")
	}
	return nil
}

func (s *membresiaService) Crear(ctx context.Context, req dto.CrearMembresiaRequest) (*dto.MembresiaResponse, error) {
	planID, _ := uuid.Parse(req.IDPlan)
	clienteID, _ := uuid.Parse(req.IDCliente)

	plan, err := s.planes.FindByID(ctx, planID)
	if err != nil {
		return nil, notFoundAs(err, "Plan no encontrado")
	}
	if plan.Estado != model.EstadoPlanActiva {
		return nil, invalido("El plan no esta activo")
	}
	if _, err := s.clientes.FindByID(ctx, clienteID); err != nil {
		return nil, notFoundAs(err, "Cliente no encontrado")
	}
	if err := validarDescuento(req.DescuentoAplicado); err != nil {
		return nil, err
	}
	if req.MontoPagado != nil && req.MontoPagado.IsNegative() {
		return nil, invalido("El monto pagado no puede ser negativo")
	}

	inicio := inicioDelDia(s.now(), s.loc)
	if req.FechaInicio != nil {
		if inicio, err = parseFecha(*req.FechaInicio, s.loc); err != nil {
			return nil, err
		}
	}
	vencimiento := inicio.AddDate(0, 0, plan.DuracionDias)
	if req.FechaVencimiento != nil {
		if vencimiento, err = parseFecha(*req.FechaVencimiento, s.loc); err != nil {
			return nil, err
		}
	}
	if vencimiento.Before(inicio) {
		return nil, invalido("La fecha de vencimiento es anterior a la de inicio")
	}

	monto := plan.Precio
	if req.MontoPagado != nil {
		monto = req.MontoPagado.Round(2)
	}

	m := &model.Membresia{
		PlanID:            plan.ID,
		ClienteID:         clienteID,
		FechaInicio:       datatypes.Date(inicio),
		FechaVencimiento:  datatypes.Date(vencimiento),
		Estado:            model.EstadoMembresiaActiva,
		MontoPagado:       &monto,
		DescuentoAplicado: req.DescuentoAplicado,
		Notas:             req.Notas,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	m.Plan = plan
	resp := mapMembresia(m)
	return &resp, nil
}

func (s *membresiaService) Listar(ctx context.Context, f dto.MembresiaFilter) ([]dto.MembresiaResponse, error) {
	rf := repository.MembresiaFilter{Estado: f.Estado}
	if f.IDCliente != "" {
		id, _ := uuid.Parse(f.IDCliente)
		rf.ClienteID = &id
	}
	list, err := s.repo.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MembresiaResponse, len(list))
	for i := range list {
		out[i] = mapMembresia(&list[i])
	}
	return out, nil
}

func (s *membresiaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.MembresiaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Membresia no encontrada")
	}
	resp := mapMembresia(m)
	return &resp, nil
}

func (s *membresiaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMembresiaRequest) (*dto.MembresiaResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Membresia no encontrada")
	}
	if req.FechaInicio != nil {
		t, err := parseFecha(*req.FechaInicio, s.loc)
		if err != nil {
			return nil, err
		}
		m.FechaInicio = datatypes.Date(t)
	}
	if req.FechaVencimiento != nil {
		t, err := parseFecha(*req.FechaVencimiento, s.loc)
		if err != nil {
			return nil, err
		}
		m.FechaVencimiento = datatypes.Date(t)
	}
	if time.Time(m.FechaVencimiento).Before(time.Time(m.FechaInicio)) {
		return nil, invalido("La fecha de vencimiento es anterior a la de inicio")
	}
	if req.Estado != nil {
		m.Estado = *req.Estado
	}
	if req.MontoPagado != nil {
		if req.MontoPagado.IsNegative() {
			return nil, invalido("El monto pagado no puede ser negativo")
		}
		v := req.MontoPagado.Round(2)
		m.MontoPagado = &v
	}
	if req.DescuentoAplicado != nil {
		if err := validarDescuento(req.DescuentoAplicado); err != nil {
			return nil, err
		}
		m.DescuentoAplicado = req.DescuentoAplicado
	}
	if req.Notas != nil {
		m.Notas = req.Notas
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	resp := mapMembresia(m)
	return &resp, nil
}

func (s *membresiaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Membresia no encontrada")
	}
	m.Estado = model.EstadoMembresiaCancelada
	return s.repo.Update(ctx, m)
}
