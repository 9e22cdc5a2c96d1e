package service

import (
	"context"
	"testing"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type membresiaFixture struct {
	svc     *membresiaService
	planes  *stubPlanRepo
	cliente *model.Cliente
	plan    *model.PlanMembresia
}

func newMembresiaFixture() *membresiaFixture {
	f := &membresiaFixture{planes: newStubPlanRepo()}
	clientes := newStubClienteRepo()
	f.cliente = &model.Cliente{ID: uuid.New(), UsuarioID: uuid.New()}
	clientes.clientes[f.cliente.ID] = f.cliente
	f.plan = &model.PlanMembresia{
		ID:           uuid.New(),
		NombrePlan:   "Trimestral",
		Precio:       dec("150"),
		DuracionDias: 90,
		Estado:       model.EstadoPlanActiva,
	}
	f.planes.planes[f.plan.ID] = f.plan

	f.svc = NewMembresiaService(newStubMembresiaRepo(), f.planes, clientes, time.UTC).(*membresiaService)
	f.svc.now = func() time.Time { return time.Date(2024, 5, 10, 18, 45, 0, 0, time.UTC) }
	return f
}

func (f *membresiaFixture) req() dto.CrearMembresiaRequest {
	return dto.CrearMembresiaRequest{IDPlan: f.plan.ID.String(), IDCliente: f.cliente.ID.String()}
}

func TestCrearMembresia_ValoresPorDefecto(t *testing.T) {
	f := newMembresiaFixture()

	m, err := f.svc.Crear(context.Background(), f.req())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", m.FechaInicio)
	assert.Equal(t, "2024-08-08", m.FechaVencimiento)
	require.NotNil(t, m.MontoPagado)
	assert.Equal(t, "150.00", m.MontoPagado.StringFixed(2))
	assert.Equal(t, model.EstadoMembresiaActiva, m.Estado)
	assert.Equal(t, "Trimestral", m.NombrePlan)
}

func TestCrearMembresia_FechasExplicitas(t *testing.T) {
	f := newMembresiaFixture()
	req := f.req()
	inicio, fin := "2024-06-01", "2024-06-30"
	req.FechaInicio, req.FechaVencimiento = &inicio, &fin

	m, err := f.svc.Crear(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, inicio, m.FechaInicio)
	assert.Equal(t, fin, m.FechaVencimiento)

	req.FechaInicio, req.FechaVencimiento = &fin, &inicio
	_, err = f.svc.Crear(context.Background(), req)
	assert.ErrorIs(t, err, ErrDatoInvalido)
}

func TestCrearMembresia_Errores(t *testing.T) {
	t.Run("plan inactivo", func(t *testing.T) {
		f := newMembresiaFixture()
		f.plan.Estado = model.EstadoPlanInactiva
		_, err := f.svc.Crear(context.Background(), f.req())
		assert.ErrorIs(t, err, ErrDatoInvalido)
	})
	t.Run("cliente inexistente", func(t *testing.T) {
		f := newMembresiaFixture()
		req := f.req()
		req.IDCliente = uuid.NewString()
		_, err := f.svc.Crear(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
	t.Run("descuento fuera de rango", func(t *testing.T) {
		f := newMembresiaFixture()
		req := f.req()
		req.DescuentoAplicado = decPtr("120")
		_, err := f.svc.Crear(context.Background(), req)
		assert.ErrorIs(t, err, ErrDatoInvalido)
	})
}

func TestEliminarMembresia_Cancela(t *testing.T) {
	f := newMembresiaFixture()
	m, err := f.svc.Crear(context.Background(), f.req())
	require.NoError(t, err)
	id := uuid.MustParse(m.ID)

	require.NoError(t, f.svc.Eliminar(context.Background(), id))
	got, err := f.svc.Obtener(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoMembresiaCancelada, got.Estado)
}
