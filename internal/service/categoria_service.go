package service

import (
	"context"
	"errors"
	"strings"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for equipment categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CategoriaEquipoRequest) (dto.CategoriaEquipoResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaEquipoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (dto.CategoriaEquipoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaEquipoRequest) (dto.CategoriaEquipoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaEquipoRepository
}

func NewCategoriaService(repo repository.CategoriaEquipoRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.CategoriaEquipo) dto.CategoriaEquipoResponse {
	return dto.CategoriaEquipoResponse{
		ID:              c.ID.String(),
		NombreCategoria: c.NombreCategoria,
		Descripcion:     c.Descripcion,
	}
}

func (s *categoriaService) nombreLibre(ctx context.Context, nombre string, propio uuid.UUID) error {
	existing, err := s.repo.ObtenerPorNombre(ctx, nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil && existing.ID != propio {
		return conflicto("Ya existe una categoria con ese nombre")
	}
	return nil
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CategoriaEquipoRequest) (dto.CategoriaEquipoResponse, error) {
	nombre := strings.TrimSpace(req.NombreCategoria)
	if err := s.nombreLibre(ctx, nombre, uuid.Nil); err != nil {
		return dto.CategoriaEquipoResponse{}, err
	}

	c := &model.CategoriaEquipo{NombreCategoria: nombre, Descripcion: req.Descripcion}
	if err := s.repo.Crear(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return dto.CategoriaEquipoResponse{}, conflicto("Ya existe una categoria con ese nombre")
		}
		return dto.CategoriaEquipoResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaEquipoResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaEquipoResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Obtener(ctx context.Context, id uuid.UUID) (dto.CategoriaEquipoResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.CategoriaEquipoResponse{}, notFoundAs(err, "Categoria no encontrada")
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.CategoriaEquipoRequest) (dto.CategoriaEquipoResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.CategoriaEquipoResponse{}, notFoundAs(err, "Categoria no encontrada")
	}

	nombre := strings.TrimSpace(req.NombreCategoria)
	if nombre != c.NombreCategoria {
		if err := s.nombreLibre(ctx, nombre, id); err != nil {
			return dto.CategoriaEquipoResponse{}, err
		}
		c.NombreCategoria = nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}

	if err := s.repo.Actualizar(ctx, c); err != nil {
		return dto.CategoriaEquipoResponse{}, err
	}
	return mapCategoria(*c), nil
}

// Eliminar is refused while equipment still references the category.
func (s *categoriaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return notFoundAs(err, "Categoria no encontrada")
	}
	n, err := s.repo.ContarEquipos(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflicto("La categoria tiene equipos asociados")
	}
	_, err = s.repo.Eliminar(ctx, id)
	if errors.Is(err, repository.ErrReferenciaInvalida) {
		return conflicto("La categoria tiene equipos asociados")
	}
	return err
}
