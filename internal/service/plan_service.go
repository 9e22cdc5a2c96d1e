package service

import (
	"context"
	"errors"
	"strings"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
)

type PlanService interface {
	Crear(ctx context.Context, req dto.CrearPlanRequest) (*dto.PlanResponse, error)
	Listar(ctx context.Context, estado string) ([]dto.PlanResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPlanRequest) (*dto.PlanResponse, error)
	// Eliminar marks the plan Inactiva; existing memberships keep pointing to it.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	repo repository.PlanRepository
}

func NewPlanService(repo repository.PlanRepository) PlanService {
	return &planService{repo: repo}
}

func mapPlan(p *model.PlanMembresia) dto.PlanResponse {
	return dto.PlanResponse{
		ID:                     p.ID.String(),
		NombrePlan:             p.NombrePlan,
		Descripcion:            p.Descripcion,
		Precio:                 p.Precio,
		DuracionDias:           p.DuracionDias,
		AccesoGimnasio:         p.AccesoGimnasio,
		AccesoEntrenador:       p.AccesoEntrenador,
		AccesoAsistenteVirtual: p.AccesoAsistenteVirtual,
		Estado:                 p.Estado,
	}
}

func (s *planService) Crear(ctx context.Context, req dto.CrearPlanRequest) (*dto.PlanResponse, error) {
	p := &model.PlanMembresia{
		NombrePlan:             strings.TrimSpace(req.NombrePlan),
		Descripcion:            req.Descripcion,
		Precio:                 req.Precio.Round(2),
		DuracionDias:           req.DuracionDias,
		AccesoGimnasio:         true,
		AccesoEntrenador:       req.AccesoEntrenador,
		AccesoAsistenteVirtual: req.AccesoAsistenteVirtual,
		Estado:                 model.EstadoPlanActiva,
	}
	if req.AccesoGimnasio != nil {
		p.AccesoGimnasio = *req.AccesoGimnasio
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("Ya existe un plan con ese nombre")
		}
		return nil, err
	}
	resp := mapPlan(p)
	return &resp, nil
}

func (s *planService) Listar(ctx context.Context, estado string) ([]dto.PlanResponse, error) {
	list, err := s.repo.List(ctx, estado)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, len(list))
	for i := range list {
		out[i] = mapPlan(&list[i])
	}
	return out, nil
}

func (s *planService) Obtener(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Plan no encontrado")
	}
	resp := mapPlan(p)
	return &resp, nil
}

func (s *planService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPlanRequest) (*dto.PlanResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Plan no encontrado")
	}
	if req.NombrePlan != nil {
		p.NombrePlan = strings.TrimSpace(*req.NombrePlan)
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, invalido("El precio debe ser mayor a cero")
		}
		p.Precio = req.Precio.Round(2)
	}
	if req.DuracionDias != nil {
		p.DuracionDias = *req.DuracionDias
	}
	if req.AccesoGimnasio != nil {
		p.AccesoGimnasio = *req.AccesoGimnasio
	}
	if req.AccesoEntrenador != nil {
		p.AccesoEntrenador = *req.AccesoEntrenador
	}
	if req.AccesoAsistenteVirtual != nil {
		p.AccesoAsistenteVirtual = *req.AccesoAsistenteVirtual
	}
	if req.Estado != nil {
		p.Estado = *req.Estado
	}
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("Ya existe un plan con ese nombre")
		}
		return nil, err
	}
	resp := mapPlan(p)
	return &resp, nil
}

func (s *planService) Eliminar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Plan no encontrado")
	}
	p.Estado = model.EstadoPlanInactiva
	return s.repo.Update(ctx, p)
}
