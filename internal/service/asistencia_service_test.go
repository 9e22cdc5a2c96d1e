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
)

type asistenciaFixture struct {
	svc      *asistenciaService
	repo     *stubAsistenciaRepo
	usuarios *stubUsuarioRepo
	codigos  *stubCodigoQRRepo
	now      time.Time
	userID   uuid.UUID
	codigo   *model.CodigoQR
}

func newAsistenciaFixture(t *testing.T) *asistenciaFixture {
	t.Helper()
	loc := time.UTC
	f := &asistenciaFixture{
		repo:     &stubAsistenciaRepo{},
		usuarios: newStubUsuarioRepo(),
		codigos:  &stubCodigoQRRepo{},
		now:      time.Date(2024, 5, 10, 9, 0, 0, 0, loc),
	}
	u := &model.Usuario{ID: uuid.New(), Username: "ana", Email: "ana@gym.test", Estado: model.EstadoUsuarioActivo}
	f.usuarios.users[u.ID] = u
	f.userID = u.ID

	f.codigo = &model.CodigoQR{
		ID:              uuid.New(),
		Codigo:          "QR-1",
		FechaGeneracion: f.now.Add(-time.Hour),
		FechaExpiracion: f.now.Add(23 * time.Hour),
		Estado:          true,
		TipoCodigo:      model.TipoCodigoDiario,
	}
	f.codigos.codigos = append(f.codigos.codigos, f.codigo)

	f.svc = NewAsistenciaService(f.repo, f.usuarios, f.codigos, loc).(*asistenciaService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *asistenciaFixture) qr(t *testing.T) (*dto.RegistroAsistenciaResponse, error) {
	t.Helper()
	return f.svc.RegistrarQR(context.Background(), Solicitante{}, dto.RegistrarQRRequest{
		IDUsuario: f.userID.String(),
		CodigoQR:  f.codigo.Codigo,
	})
}

func (f *asistenciaFixture) abiertas() int {
	n := 0
	for _, a := range f.repo.rows {
		if a.Abierta() {
			n++
		}
	}
	return n
}

func TestRegistrarQR_EntradaLuegoSalida(t *testing.T) {
	f := newAsistenciaFixture(t)

	entrada, err := f.qr(t)
	require.NoError(t, err)
	assert.Equal(t, MovimientoEntrada, entrada.Movimiento)
	assert.Equal(t, "Entrada registrada exitosamente", entrada.Mensaje)
	assert.Nil(t, entrada.FechaSalida)
	require.NotNil(t, entrada.IDCodigoQR)
	assert.Equal(t, f.codigo.ID.String(), *entrada.IDCodigoQR)
	assert.Equal(t, 1, f.abiertas())

	f.now = f.now.Add(47*time.Minute + 59*time.Second)
	salida, err := f.qr(t)
	require.NoError(t, err)
	assert.Equal(t, MovimientoSalida, salida.Movimiento)
	assert.Equal(t, entrada.ID, salida.ID)
	require.NotNil(t, salida.DuracionMinutos)
	assert.Equal(t, 47, *salida.DuracionMinutos)
	assert.Equal(t, 0, f.abiertas())
	assert.Len(t, f.repo.rows, 1)
}

func TestRegistrarQR_TercerLlamadoAbreNuevaVisita(t *testing.T) {
	f := newAsistenciaFixture(t)

	for _, want := range []string{MovimientoEntrada, MovimientoSalida, MovimientoEntrada} {
		resp, err := f.qr(t)
		require.NoError(t, err)
		assert.Equal(t, want, resp.Movimiento)
		f.now = f.now.Add(10 * time.Minute)
	}
	assert.Len(t, f.repo.rows, 2)
	assert.Equal(t, 1, f.abiertas())
}

func TestRegistrarQR_VisitaDeAyerNoBloquea(t *testing.T) {
	f := newAsistenciaFixture(t)
	ayer := &model.Asistencia{
		ID:           uuid.New(),
		UsuarioID:    f.userID,
		FechaEntrada: time.Date(2024, 5, 9, 20, 30, 0, 0, time.UTC),
		TipoAcceso:   model.TipoAccesoQR,
		EstadoAcceso: model.EstadoAccesoPermitido,
	}
	f.repo.rows = append(f.repo.rows, ayer)

	resp, err := f.qr(t)
	require.NoError(t, err)
	assert.Equal(t, MovimientoEntrada, resp.Movimiento)

	require.NotNil(t, ayer.FechaSalida)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), *ayer.FechaSalida)
	require.NotNil(t, ayer.DuracionMinutos)
	assert.Equal(t, 210, *ayer.DuracionMinutos)
	require.NotNil(t, ayer.Notas)
	assert.Contains(t, *ayer.Notas, notaCierreAutomatico)
	assert.Equal(t, 1, f.abiertas())
}

func TestRegistrarQR_Errores(t *testing.T) {
	t.Run("usuario inexistente", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		f.userID = uuid.New()
		_, err := f.qr(t)
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
	t.Run("codigo inexistente", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		f.codigo = &model.CodigoQR{Codigo: "NOPE"}
		_, err := f.qr(t)
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
	t.Run("codigo inactivo", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		f.codigo.Estado = false
		_, err := f.qr(t)
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
	t.Run("codigo expirado", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		f.codigo.FechaExpiracion = f.now.Add(-time.Minute)
		_, err := f.qr(t)
		assert.ErrorIs(t, err, ErrProhibido)
		assert.Empty(t, f.repo.rows)
	})
	t.Run("cliente registrando a otro usuario", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		quien := Solicitante{ID: uuid.New(), Roles: []string{model.RolCliente}}
		_, err := f.svc.RegistrarQR(context.Background(), quien, dto.RegistrarQRRequest{
			IDUsuario: f.userID.String(), CodigoQR: f.codigo.Codigo,
		})
		assert.ErrorIs(t, err, ErrProhibido)
	})
	t.Run("recepcion puede registrar a otros", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		quien := Solicitante{ID: uuid.New(), Roles: []string{model.RolCliente, model.RolRecepcion}}
		_, err := f.svc.RegistrarQR(context.Background(), quien, dto.RegistrarQRRequest{
			IDUsuario: f.userID.String(), CodigoQR: f.codigo.Codigo,
		})
		assert.NoError(t, err)
	})
}

func TestRegistrarManual(t *testing.T) {
	ctx := context.Background()

	t.Run("entrada con visita abierta es conflicto", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		_, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String(), Tipo: "entrada"})
		require.NoError(t, err)
		_, err = f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String(), Tipo: "entrada"})
		assert.ErrorIs(t, err, ErrConflicto)
		assert.Len(t, f.repo.rows, 1)
	})
	t.Run("salida sin visita abierta", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		_, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String(), Tipo: "salida"})
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
	t.Run("tipo invalido", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		_, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String(), Tipo: "pausa"})
		assert.ErrorIs(t, err, ErrDatoInvalido)
	})
	t.Run("salida conserva las notas de la entrada", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		nota := "olvido la tarjeta"
		_, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String(), Tipo: "entrada", Notas: &nota})
		require.NoError(t, err)

		f.now = f.now.Add(90 * time.Minute)
		resp, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String(), Tipo: "SALIDA"})
		require.NoError(t, err)
		assert.Equal(t, MovimientoSalida, resp.Movimiento)
		assert.Equal(t, model.TipoAccesoManual, resp.TipoAcceso)
		require.NotNil(t, resp.Notas)
		assert.Equal(t, nota, *resp.Notas)
		assert.Equal(t, 90, *resp.DuracionMinutos)
	})
	t.Run("sin tipo alterna", func(t *testing.T) {
		f := newAsistenciaFixture(t)
		a, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String()})
		require.NoError(t, err)
		b, err := f.svc.RegistrarManual(ctx, dto.RegistrarManualRequest{IDUsuario: f.userID.String()})
		require.NoError(t, err)
		assert.Equal(t, MovimientoEntrada, a.Movimiento)
		assert.Equal(t, MovimientoSalida, b.Movimiento)
		assert.Nil(t, a.IDCodigoQR)
	})
}

func TestRegistrar_IndiceUnicoDevuelveConflicto(t *testing.T) {
	f := newAsistenciaFixture(t)
	f.repo.createErr = &repository.ConstraintError{Constraint: repository.ConstraintAsistenciaAbierta}

	_, err := f.qr(t)
	assert.ErrorIs(t, err, ErrConflicto)
}

func TestCerrarAbiertasVencidas(t *testing.T) {
	f := newAsistenciaFixture(t)
	vieja := &model.Asistencia{ID: uuid.New(), UsuarioID: f.userID, FechaEntrada: f.now.AddDate(0, 0, -2)}
	hoy := &model.Asistencia{ID: uuid.New(), UsuarioID: uuid.New(), FechaEntrada: f.now.Add(-time.Hour)}
	f.repo.rows = append(f.repo.rows, vieja, hoy)

	n, err := f.svc.CerrarAbiertasVencidas(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, vieja.Abierta())
	assert.Equal(t, 24*60-9*60, *vieja.DuracionMinutos)
	assert.True(t, hoy.Abierta())
}

func TestListarPorUsuario_HastaIncluyeElDia(t *testing.T) {
	f := newAsistenciaFixture(t)
	f.repo.rows = append(f.repo.rows,
		&model.Asistencia{ID: uuid.New(), UsuarioID: f.userID, FechaEntrada: time.Date(2024, 5, 3, 23, 30, 0, 0, time.UTC)},
		&model.Asistencia{ID: uuid.New(), UsuarioID: f.userID, FechaEntrada: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)},
		&model.Asistencia{ID: uuid.New(), UsuarioID: uuid.New(), FechaEntrada: time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC)},
	)

	list, err := f.svc.ListarPorUsuario(context.Background(), f.userID, dto.AsistenciaQuery{Desde: "2024-05-01", Hasta: "2024-05-03"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-05-03T23:30:00Z", list[0].FechaEntrada)

	_, err = f.svc.ListarPorUsuario(context.Background(), f.userID, dto.AsistenciaQuery{Desde: "2024-05-05", Hasta: "2024-05-01"})
	assert.ErrorIs(t, err, ErrDatoInvalido)

	_, err = f.svc.ListarPorUsuario(context.Background(), uuid.New(), dto.AsistenciaQuery{})
	assert.ErrorIs(t, err, ErrNoEncontrado)
}
