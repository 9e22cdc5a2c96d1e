package service

import (
	"context"
	"testing"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── stubs ─────────────────────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.CategoriaEquipo
	equipos    *stubEquipoRepo
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.CategoriaEquipo) error {
	c.ID = uuid.New()
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.CategoriaEquipo, error) {
	var out []model.CategoriaEquipo
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.CategoriaEquipo, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.CategoriaEquipo, error) {
	for _, c := range r.categorias {
		if c.NombreCategoria == nombre {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.CategoriaEquipo) error {
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Eliminar(_ context.Context, id uuid.UUID) (int64, error) {
	delete(r.categorias, id)
	return 1, nil
}

func (r *stubCategoriaRepo) ContarEquipos(_ context.Context, id uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.equipos.equipos {
		if e.CategoriaID == id {
			n++
		}
	}
	return n, nil
}

type stubEquipoRepo struct {
	equipos map[uuid.UUID]*model.Equipo
}

func (r *stubEquipoRepo) DB() *gorm.DB { return nil }

func (r *stubEquipoRepo) Crear(_ context.Context, e *model.Equipo) error {
	e.ID = uuid.New()
	r.equipos[e.ID] = e
	return nil
}

func (r *stubEquipoRepo) Listar(_ context.Context, _ repository.EquipoFilter) ([]model.Equipo, error) {
	var out []model.Equipo
	for _, e := range r.equipos {
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubEquipoRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Equipo, error) {
	e, ok := r.equipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *stubEquipoRepo) Actualizar(_ context.Context, e *model.Equipo) error {
	r.equipos[e.ID] = e
	return nil
}

func (r *stubEquipoRepo) CambiarEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	e, ok := r.equipos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Estado = estado
	return nil
}

func (r *stubEquipoRepo) Eliminar(_ context.Context, id uuid.UUID) (int64, error) {
	delete(r.equipos, id)
	return 1, nil
}

type stubMantenimientoRepo struct {
	items map[uuid.UUID]*model.Mantenimiento
}

func (r *stubMantenimientoRepo) CrearTx(_ *gorm.DB, m *model.Mantenimiento) error {
	m.ID = uuid.New()
	r.items[m.ID] = m
	return nil
}

func (r *stubMantenimientoRepo) Listar(_ context.Context, _ repository.MantenimientoFilter) ([]model.Mantenimiento, error) {
	var out []model.Mantenimiento
	for _, m := range r.items {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMantenimientoRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Mantenimiento, error) {
	m, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMantenimientoRepo) ActualizarTx(_ *gorm.DB, m *model.Mantenimiento) error {
	r.items[m.ID] = m
	return nil
}

func (r *stubMantenimientoRepo) Eliminar(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.items[id]; !ok {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

// ── tests ─────────────────────────────────────────────────────────────────────

type inventarioFixture struct {
	inv        *inventarioService
	categorias CategoriaService
	equipos    *stubEquipoRepo
	cat        *model.CategoriaEquipo
}

func newInventarioFixture() *inventarioFixture {
	equipos := &stubEquipoRepo{equipos: map[uuid.UUID]*model.Equipo{}}
	cats := &stubCategoriaRepo{categorias: map[uuid.UUID]*model.CategoriaEquipo{}, equipos: equipos}
	cat := &model.CategoriaEquipo{ID: uuid.New(), NombreCategoria: "Cardio"}
	cats.categorias[cat.ID] = cat

	inv := NewInventarioService(equipos, cats, &stubMantenimientoRepo{items: map[uuid.UUID]*model.Mantenimiento{}}, nil, time.UTC).(*inventarioService)
	inv.now = func() time.Time { return time.Date(2024, 5, 10, 16, 0, 0, 0, time.UTC) }
	return &inventarioFixture{inv: inv, categorias: NewCategoriaService(cats), equipos: equipos, cat: cat}
}

func (f *inventarioFixture) equipo(t *testing.T) *dto.EquipoResponse {
	t.Helper()
	e, err := f.inv.CrearEquipo(context.Background(), dto.CrearEquipoRequest{
		IDCategoria:  f.cat.ID.String(),
		NombreEquipo: "Cinta 3000",
	})
	require.NoError(t, err)
	return e
}

func TestCrearEquipo(t *testing.T) {
	f := newInventarioFixture()
	e := f.equipo(t)
	assert.Equal(t, model.EstadoEquipoOperativo, e.Estado)
	assert.Equal(t, "Cardio", e.NombreCategoria)

	_, err := f.inv.CrearEquipo(context.Background(), dto.CrearEquipoRequest{IDCategoria: uuid.NewString(), NombreEquipo: "X"})
	assert.ErrorIs(t, err, ErrNoEncontrado)

	_, err = f.inv.CrearEquipo(context.Background(), dto.CrearEquipoRequest{
		IDCategoria: f.cat.ID.String(), NombreEquipo: "Remo", Costo: decPtr("-1"),
	})
	assert.ErrorIs(t, err, ErrDatoInvalido)
}

func TestMantenimiento_MueveElEstadoDelEquipo(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()
	e := f.equipo(t)
	equipoID := uuid.MustParse(e.ID)

	m, err := f.inv.CrearMantenimiento(ctx, dto.CrearMantenimientoRequest{
		IDEquipo:          e.ID,
		TipoMantenimiento: model.TipoMantenimientoCorrectivo,
		FechaProgramada:   "2024-05-10",
		Estado:            model.EstadoMantenimientoEnProceso,
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEquipoEnMantenimiento, f.equipos.equipos[equipoID].Estado)
	assert.Nil(t, m.FechaRealizada)

	completado := model.EstadoMantenimientoCompletado
	m, err = f.inv.ActualizarMantenimiento(ctx, uuid.MustParse(m.ID), dto.ActualizarMantenimientoRequest{Estado: &completado})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEquipoOperativo, f.equipos.equipos[equipoID].Estado)
	require.NotNil(t, m.FechaRealizada)
	assert.Equal(t, "2024-05-10", *m.FechaRealizada)
}

func TestMantenimiento_ProgramadoNoTocaElEquipo(t *testing.T) {
	f := newInventarioFixture()
	e := f.equipo(t)
	equipoID := uuid.MustParse(e.ID)
	f.equipos.equipos[equipoID].Estado = model.EstadoEquipoFueraDeServicio

	_, err := f.inv.CrearMantenimiento(context.Background(), dto.CrearMantenimientoRequest{
		IDEquipo:          e.ID,
		TipoMantenimiento: model.TipoMantenimientoPreventivo,
		FechaProgramada:   "2024-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEquipoFueraDeServicio, f.equipos.equipos[equipoID].Estado)
}

func TestEliminarCategoria_ConEquipos(t *testing.T) {
	f := newInventarioFixture()
	ctx := context.Background()
	f.equipo(t)

	err := f.categorias.Eliminar(ctx, f.cat.ID)
	assert.ErrorIs(t, err, ErrConflicto)

	vacia, err := f.categorias.Crear(ctx, dto.CategoriaEquipoRequest{NombreCategoria: "Yoga"})
	require.NoError(t, err)
	assert.NoError(t, f.categorias.Eliminar(ctx, uuid.MustParse(vacia.ID)))

	_, err = f.categorias.Crear(ctx, dto.CategoriaEquipoRequest{NombreCategoria: "Cardio"})
	assert.ErrorIs(t, err, ErrConflicto)
}
