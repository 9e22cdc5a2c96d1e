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

type RolService interface {
	Crear(ctx context.Context, req dto.RolRequest) (*dto.RolResponse, error)
	Listar(ctx context.Context) ([]dto.RolResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.RolResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.RolRequest) (*dto.RolResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ListarUsuarios(ctx context.Context, id uuid.UUID) ([]dto.UsuarioResponse, error)
}

type rolService struct {
	repo repository.RolRepository
}

func NewRolService(repo repository.RolRepository) RolService {
	return &rolService{repo: repo}
}

func mapRol(r *model.Rol) dto.RolResponse {
	return dto.RolResponse{
		ID:            r.ID.String(),
		Nombre:        r.Nombre,
		Descripcion:   r.Descripcion,
		FechaCreacion: formatTS(r.FechaCreacion),
	}
}

func (s *rolService) Crear(ctx context.Context, req dto.RolRequest) (*dto.RolResponse, error) {
	r := &model.Rol{Nombre: strings.ToLower(strings.TrimSpace(req.Nombre)), Descripcion: req.Descripcion}
	if err := s.repo.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("Ya existe un rol con ese nombre")
		}
		return nil, err
	}
	resp := mapRol(r)
	return &resp, nil
}

func (s *rolService) Listar(ctx context.Context) ([]dto.RolResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RolResponse, len(list))
	for i := range list {
		out[i] = mapRol(&list[i])
	}
	return out, nil
}

func (s *rolService) Obtener(ctx context.Context, id uuid.UUID) (*dto.RolResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Rol no encontrado")
	}
	resp := mapRol(r)
	return &resp, nil
}

func (s *rolService) Actualizar(ctx context.Context, id uuid.UUID, req dto.RolRequest) (*dto.RolResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Rol no encontrado")
	}
	r.Nombre = strings.ToLower(strings.TrimSpace(req.Nombre))
	if req.Descripcion != nil {
		r.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("Ya existe un rol con ese nombre")
		}
		return nil, err
	}
	resp := mapRol(r)
	return &resp, nil
}

// Eliminar refuses to drop a role still referenced by users.
func (s *rolService) Eliminar(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReferenciaInvalida) {
			return conflicto("El rol esta asignado a usuarios")
		}
		return err
	}
	if n == 0 {
		return noEncontrado("Rol no encontrado")
	}
	return nil
}

func (s *rolService) ListarUsuarios(ctx context.Context, id uuid.UUID) ([]dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFoundAs(err, "Rol no encontrado")
	}
	users, err := s.repo.ListUsuarios(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		out[i] = mapUsuario(&users[i], nil)
	}
	return out, nil
}
