package service

import (
	"context"
	"testing"
	"time"

	"gimnasio/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture(t *testing.T, ttl time.Duration) (*dashboardService, *stubDashboardRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &stubDashboardRepo{
		total:    12,
		activas:  3,
		promedio: 47.3333333,
		porPlan:  []repository.PlanConteo{{Plan: "Mensual", Total: 8}, {Plan: "Anual", Total: 4}},
		ingresos: dec("1530.5"),
	}
	svc := NewDashboardService(repo, rdb, ttl, time.UTC).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo, mr
}

func TestResumenHoy(t *testing.T) {
	svc, _, _ := newDashboardFixture(t, 30*time.Second)

	resp, err := svc.ResumenHoy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", resp.Fecha)
	assert.EqualValues(t, 12, resp.AsistenciasTotalesHoy)
	assert.EqualValues(t, 3, resp.AsistenciasActivasAhora)
	assert.Equal(t, 47.33, resp.PromedioDuracionMinutosHoy)
	assert.Equal(t, "1530.50", resp.IngresosHoy.StringFixed(2))
	require.Len(t, resp.PorMembresiaHoy, 2)
	assert.Equal(t, "Mensual", resp.PorMembresiaHoy[0].Plan)
}

func TestResumenHoy_UsaElCache(t *testing.T) {
	svc, repo, mr := newDashboardFixture(t, 30*time.Second)
	ctx := context.Background()

	_, err := svc.ResumenHoy(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists(claveDashboardHoy+":2024-05-10"))

	repo.total = 99
	cached, err := svc.ResumenHoy(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, cached.AsistenciasTotalesHoy)
	assert.Equal(t, 1, repo.llamadas)

	mr.FastForward(31 * time.Second)
	fresh, err := svc.ResumenHoy(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 99, fresh.AsistenciasTotalesHoy)
	assert.Equal(t, 2, repo.llamadas)
}

func TestResumenHoy_SinCache(t *testing.T) {
	svc, repo, mr := newDashboardFixture(t, 0)

	for i := 0; i < 2; i++ {
		_, err := svc.ResumenHoy(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, repo.llamadas)
	assert.Empty(t, mr.Keys())
}
