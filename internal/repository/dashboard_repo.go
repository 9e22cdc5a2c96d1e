package repository

import (
	"context"
	"database/sql"
	"time"

	"gimnasio/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlanConteo is the number of visits attributed to a membership plan.
type PlanConteo struct {
	Plan  string
	Total int64
}

// DashboardRepository holds the aggregate queries behind the admin dashboard.
// Each join is spelled out in SQL so the shape of the result is explicit.
type DashboardRepository interface {
	ContarAsistenciasDesde(ctx context.Context, desde time.Time) (int64, error)
	ContarActivas(ctx context.Context) (int64, error)
	PromedioDuracionDesde(ctx context.Context, desde time.Time) (float64, error)
	AsistenciasPorPlanDesde(ctx context.Context, desde time.Time) ([]PlanConteo, error)
	IngresosDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

func (r *dashboardRepo) ContarAsistenciasDesde(ctx context.Context, desde time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Asistencia{}).
		Where("fecha_entrada >= ? AND estado_acceso = ?", desde, model.EstadoAccesoPermitido).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepo) ContarActivas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Asistencia{}).
		Where("fecha_salida IS NULL").
		Count(&n).Error
	return n, err
}

func (r *dashboardRepo) PromedioDuracionDesde(ctx context.Context, desde time.Time) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).Raw(`
		SELECT AVG(duracion_minutos)::float8
		FROM asistencias
		WHERE fecha_entrada >= ? AND duracion_minutos IS NOT NULL`, desde).Row().Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *dashboardRepo) AsistenciasPorPlanDesde(ctx context.Context, desde time.Time) ([]PlanConteo, error) {
	var rows []PlanConteo
	err := r.db.WithContext(ctx).Raw(`
		SELECT pl.nombre_plan AS plan, COUNT(DISTINCT a.id) AS total
		FROM asistencias a
		JOIN clientes c          ON c.id_usuario = a.id_usuario
		JOIN membresias m        ON m.id_cliente = c.id AND m.estado = ?
		JOIN planes_membresia pl ON pl.id = m.id_plan
		WHERE a.fecha_entrada >= ? AND a.estado_acceso = ?
		GROUP BY pl.nombre_plan
		ORDER BY total DESC, pl.nombre_plan`,
		model.EstadoMembresiaActiva, desde, model.EstadoAccesoPermitido).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) IngresosDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT SUM(monto) FROM pagos WHERE fecha_pago >= ? AND estado <> ?`,
		desde, model.EstadoPagoAnulado).Row().Scan(&total)
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
