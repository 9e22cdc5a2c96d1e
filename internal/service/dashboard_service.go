package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const claveDashboardHoy = "cache:dashboard:hoy"

type DashboardService interface {
	ResumenHoy(ctx context.Context) (*dto.ResumenHoyResponse, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	rdb  *redis.Client
	ttl  time.Duration
	loc  *time.Location
	now  func() time.Time
}

// NewDashboardService caches the summary in Redis for ttl. A nil client or a
// zero ttl disables the cache.
func NewDashboardService(repo repository.DashboardRepository, rdb *redis.Client, ttl time.Duration, loc *time.Location) DashboardService {
	return &dashboardService{repo: repo, rdb: rdb, ttl: ttl, loc: loc, now: time.Now}
}

func (s *dashboardService) cacheActivo() bool { return s.rdb != nil && s.ttl > 0 }

func (s *dashboardService) ResumenHoy(ctx context.Context) (*dto.ResumenHoyResponse, error) {
	hoy := inicioDelDia(s.now(), s.loc)
	clave := claveDashboardHoy + ":" + hoy.Format(layoutFecha)

	if s.cacheActivo() {
		raw, err := s.rdb.Get(ctx, clave).Bytes()
		switch {
		case err == nil:
			var cached dto.ResumenHoyResponse
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return &cached, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Warn().Err(err).Str("component", "dashboard").Msg("cache no disponible")
		}
	}

	resp := &dto.ResumenHoyResponse{Fecha: hoy.Format(layoutFecha)}
	var (
		promedio float64
		porPlan  []repository.PlanConteo
		ingresos decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.AsistenciasTotalesHoy, err = s.repo.ContarAsistenciasDesde(gctx, hoy)
		return err
	})
	g.Go(func() (err error) {
		resp.AsistenciasActivasAhora, err = s.repo.ContarActivas(gctx)
		return err
	})
	g.Go(func() (err error) {
		promedio, err = s.repo.PromedioDuracionDesde(gctx, hoy)
		return err
	})
	g.Go(func() (err error) {
		porPlan, err = s.repo.AsistenciasPorPlanDesde(gctx, hoy)
		return err
	})
	g.Go(func() (err error) {
		ingresos, err = s.repo.IngresosDesde(gctx, hoy)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.PromedioDuracionMinutosHoy = math.Round(promedio*100) / 100
	resp.IngresosHoy = ingresos.Round(2)
	resp.PorMembresiaHoy = make([]dto.PlanConteoResponse, len(porPlan))
	for i, p := range porPlan {
		resp.PorMembresiaHoy[i] = dto.PlanConteoResponse{Plan: p.Plan, Total: p.Total}
	}

	if s.cacheActivo() {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, clave, raw, s.ttl).Err(); err != nil {
				log.Warn().Err(err).Str("component", "dashboard").Msg("no se pudo guardar el cache")
			}
		}
	}
	return resp, nil
}
