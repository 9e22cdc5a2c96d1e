package service

import (
	"context"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
)

type SesionService interface {
	ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, limit int) ([]dto.SesionResponse, error)
	// ConteoPorDia defaults to the last 30 days.
	ConteoPorDia(ctx context.Context, rango dto.RangoFechas) ([]dto.ConteoDiarioResponse, error)
}

type sesionService struct {
	repo repository.SesionRepository
	loc  *time.Location
	now  func() time.Time
}

func NewSesionService(repo repository.SesionRepository, loc *time.Location) SesionService {
	return &sesionService{repo: repo, loc: loc, now: time.Now}
}

func (s *sesionService) ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, limit int) ([]dto.SesionResponse, error) {
	list, err := s.repo.ListByUsuario(ctx, usuarioID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SesionResponse, len(list))
	for i, ses := range list {
		out[i] = dto.SesionResponse{
			ID:              ses.ID.String(),
			IDUsuario:       ses.UsuarioID.String(),
			TokenAnterior:   ses.TokenAnterior,
			FechaInicio:     formatTS(ses.FechaInicio),
			FechaExpiracion: formatTS(ses.FechaExpiracion),
			Estado:          ses.Estado,
			IP:              ses.IP,
			Dispositivo:     ses.Dispositivo,
		}
	}
	return out, nil
}

func (s *sesionService) ConteoPorDia(ctx context.Context, rango dto.RangoFechas) ([]dto.ConteoDiarioResponse, error) {
	from, to, err := rangoDias(rango.Desde, rango.Hasta, s.now(), s.loc, 30)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ConteoPorDia(ctx, from, to, s.loc.String())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConteoDiarioResponse, len(rows))
	for i, r := range rows {
		out[i] = dto.ConteoDiarioResponse{Fecha: r.Fecha.Format(layoutFecha), Total: r.Total}
	}
	return out, nil
}
