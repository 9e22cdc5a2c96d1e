package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Movimiento values reported by the check-in/out endpoints.
const (
	MovimientoEntrada = "entrada"
	MovimientoSalida  = "salida"
)

const notaCierreAutomatico = "Cierre automatico"

// Solicitante is the authenticated caller of an operation.
type Solicitante struct {
	ID    uuid.UUID
	Roles []string
}

// soloCliente reports whether the caller holds no role other than cliente.
func (s Solicitante) soloCliente() bool {
	if len(s.Roles) == 0 {
		return false
	}
	for _, r := range s.Roles {
		if r != model.RolCliente {
			return false
		}
	}
	return true
}

// AsistenciaService records gym entries and exits.
//
// A user has at most one open visit (fecha_salida NULL). An open visit that
// checked in before today's local midnight is stale: it is closed at the end
// of its own day and never blocks a new check-in.
type AsistenciaService interface {
	RegistrarQR(ctx context.Context, quien Solicitante, req dto.RegistrarQRRequest) (*dto.RegistroAsistenciaResponse, error)
	RegistrarManual(ctx context.Context, req dto.RegistrarManualRequest) (*dto.RegistroAsistenciaResponse, error)

	ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, q dto.AsistenciaQuery) ([]dto.AsistenciaResponse, error)
	ListarPorDia(ctx context.Context, r dto.RangoFechas) ([]dto.ResumenDiarioResponse, error)
	ListarAdmin(ctx context.Context, q dto.AsistenciaQuery) (*dto.AsistenciaListResponse, error)

	// CerrarAbiertasVencidas closes every stale open visit. Run nightly.
	CerrarAbiertasVencidas(ctx context.Context) (int, error)
}

type asistenciaService struct {
	repo     repository.AsistenciaRepository
	usuarios repository.UsuarioRepository
	codigos  repository.CodigoQRRepository
	loc      *time.Location
	now      func() time.Time
}

func NewAsistenciaService(
	repo repository.AsistenciaRepository,
	usuarios repository.UsuarioRepository,
	codigos repository.CodigoQRRepository,
	loc *time.Location,
) AsistenciaService {
	return &asistenciaService{repo: repo, usuarios: usuarios, codigos: codigos, loc: loc, now: time.Now}
}

func mapAsistencia(a *model.Asistencia) dto.AsistenciaResponse {
	resp := dto.AsistenciaResponse{
		ID:              a.ID.String(),
		IDUsuario:       a.UsuarioID.String(),
		FechaEntrada:    formatTS(a.FechaEntrada),
		FechaSalida:     formatTSPtr(a.FechaSalida),
		DuracionMinutos: a.DuracionMinutos,
		TipoAcceso:      a.TipoAcceso,
		EstadoAcceso:    a.EstadoAcceso,
		Notas:           a.Notas,
	}
	if a.CodigoQRID != nil {
		s := a.CodigoQRID.String()
		resp.IDCodigoQR = &s
	}
	return resp
}

// ── Registro ──────────────────────────────────────────────────────────────────

// registro describes one check-in/out attempt.
type registro struct {
	usuarioID  uuid.UUID
	tipo       string // "", entrada, salida
	tipoAcceso string
	codigo     string
	notas      *string
}

func (s *asistenciaService) RegistrarQR(ctx context.Context, quien Solicitante, req dto.RegistrarQRRequest) (*dto.RegistroAsistenciaResponse, error) {
	usuarioID, err := uuid.Parse(req.IDUsuario)
	if err != nil {
		return nil, invalido("id_usuario invalido")
	}
	if quien.soloCliente() && quien.ID != usuarioID {
		return nil, prohibido("Solo puede registrar su propia asistencia")
	}
	return s.registrar(ctx, registro{
		usuarioID:  usuarioID,
		tipoAcceso: model.TipoAccesoQR,
		codigo:     req.CodigoQR,
	})
}

func (s *asistenciaService) RegistrarManual(ctx context.Context, req dto.RegistrarManualRequest) (*dto.RegistroAsistenciaResponse, error) {
	usuarioID, err := uuid.Parse(req.IDUsuario)
	if err != nil {
		return nil, invalido("id_usuario invalido")
	}
	tipo := strings.ToLower(strings.TrimSpace(req.Tipo))
	if tipo != "" && tipo != MovimientoEntrada && tipo != MovimientoSalida {
		return nil, invalido("tipo debe ser 'entrada' o 'salida'")
	}
	return s.registrar(ctx, registro{
		usuarioID:  usuarioID,
		tipo:       tipo,
		tipoAcceso: model.TipoAccesoManual,
		notas:      req.Notas,
	})
}

// registrar is the check-and-set shared by both entry points. The user row
// lock serializes concurrent toggles for the same user; the partial unique
// index catches anything that slips past it.
func (s *asistenciaService) registrar(ctx context.Context, r registro) (*dto.RegistroAsistenciaResponse, error) {
	now := s.now()
	inicioHoy := inicioDelDia(now, s.loc)

	var (
		a          *model.Asistencia
		movimiento string
	)
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.usuarios.LockByIDTx(tx, r.usuarioID); err != nil {
			return notFoundAs(err, "Usuario no encontrado")
		}

		var codigoID *uuid.UUID
		if r.tipoAcceso == model.TipoAccesoQR {
			c, err := s.validarCodigo(ctx, r.codigo, now)
			if err != nil {
				return err
			}
			codigoID = &c.ID
		}

		abierta, err := s.abiertaDeHoy(tx, r.usuarioID, inicioHoy)
		if err != nil {
			return err
		}

		switch {
		case abierta != nil && r.tipo == MovimientoEntrada:
			return conflicto("El usuario ya tiene una entrada registrada hoy")
		case abierta == nil && r.tipo == MovimientoSalida:
			return noEncontrado("No hay una entrada abierta para registrar la salida")
		case abierta != nil:
			abierta.Cerrar(now)
			if r.notas != nil {
				abierta.Notas = r.notas
			}
			if err := s.repo.UpdateTx(tx, abierta); err != nil {
				return err
			}
			a, movimiento = abierta, MovimientoSalida
			return nil
		}

		nueva := &model.Asistencia{
			UsuarioID:    r.usuarioID,
			CodigoQRID:   codigoID,
			FechaEntrada: now,
			TipoAcceso:   r.tipoAcceso,
			EstadoAcceso: model.EstadoAccesoPermitido,
			Notas:        r.notas,
		}
		if err := s.repo.CreateTx(tx, nueva); err != nil {
			if repository.ViolatesConstraint(err, repository.ConstraintAsistenciaAbierta) {
				return conflicto("El usuario ya tiene una entrada abierta")
			}
			return err
		}
		a, movimiento = nueva, MovimientoEntrada
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.RegistroAsistenciaResponse{
		Movimiento:         movimiento,
		AsistenciaResponse: mapAsistencia(a),
	}
	if movimiento == MovimientoEntrada {
		resp.Mensaje = "Entrada registrada exitosamente"
	} else {
		resp.Mensaje = "Salida registrada exitosamente"
	}
	log.Info().
		Str("usuario_id", r.usuarioID.String()).
		Str("movimiento", movimiento).
		Str("tipo_acceso", r.tipoAcceso).
		Msg("asistencia registrada")
	return resp, nil
}

func (s *asistenciaService) validarCodigo(ctx context.Context, codigo string, now time.Time) (*model.CodigoQR, error) {
	c, err := s.codigos.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, notFoundAs(err, "Codigo QR no encontrado")
	}
	if !c.Estado {
		return nil, noEncontrado("Codigo QR no encontrado o inactivo")
	}
	if c.FechaExpiracion.Before(now) {
		return nil, prohibido("Codigo QR expirado")
	}
	return c, nil
}

// abiertaDeHoy returns today's open visit, or nil. A stale open visit is
// closed on the way.
func (s *asistenciaService) abiertaDeHoy(tx *gorm.DB, usuarioID uuid.UUID, inicioHoy time.Time) (*model.Asistencia, error) {
	a, err := s.repo.FindAbiertaTx(tx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !a.FechaEntrada.Before(inicioHoy) {
		return a, nil
	}
	if err := s.cerrarVencida(tx, a); err != nil {
		return nil, err
	}
	return nil, nil
}

// cerrarVencida closes a at the end of its own check-in day.
func (s *asistenciaService) cerrarVencida(tx *gorm.DB, a *model.Asistencia) error {
	a.Cerrar(inicioDelDia(a.FechaEntrada, s.loc).AddDate(0, 0, 1))
	nota := notaCierreAutomatico
	if a.Notas != nil && *a.Notas != "" {
		nota = *a.Notas + " | " + notaCierreAutomatico
	}
	a.Notas = &nota
	return s.repo.UpdateTx(tx, a)
}

func (s *asistenciaService) CerrarAbiertasVencidas(ctx context.Context) (int, error) {
	inicioHoy := inicioDelDia(s.now(), s.loc)
	var cerradas int
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		list, err := s.repo.AbiertasAntesDeTx(tx, inicioHoy)
		if err != nil {
			return err
		}
		for i := range list {
			if err := s.cerrarVencida(tx, &list[i]); err != nil {
				return err
			}
		}
		cerradas = len(list)
		return nil
	})
	return cerradas, err
}

// ── Consultas ─────────────────────────────────────────────────────────────────

// filtro turns query-string dates into a repository filter. hasta covers its
// whole day.
func (s *asistenciaService) filtro(q dto.AsistenciaQuery) (repository.AsistenciaFilter, error) {
	f := repository.AsistenciaFilter{Abiertas: q.Abiertas, Limit: q.Limit, Offset: q.Offset}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if q.Desde != "" {
		d, err := parseFecha(q.Desde, s.loc)
		if err != nil {
			return f, err
		}
		f.Desde = &d
	}
	if q.Hasta != "" {
		h, err := parseFecha(q.Hasta, s.loc)
		if err != nil {
			return f, err
		}
		h = h.AddDate(0, 0, 1)
		f.Hasta = &h
	}
	if f.Desde != nil && f.Hasta != nil && !f.Desde.Before(*f.Hasta) {
		return f, invalido("El rango de fechas es invalido")
	}
	return f, nil
}

func (s *asistenciaService) ListarPorUsuario(ctx context.Context, usuarioID uuid.UUID, q dto.AsistenciaQuery) ([]dto.AsistenciaResponse, error) {
	f, err := s.filtro(q)
	if err != nil {
		return nil, err
	}
	if _, err := s.usuarios.FindByID(ctx, usuarioID); err != nil {
		return nil, notFoundAs(err, "Usuario no encontrado")
	}
	f.UsuarioID = &usuarioID

	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AsistenciaResponse, len(list))
	for i := range list {
		out[i] = mapAsistencia(&list[i])
	}
	return out, nil
}

func (s *asistenciaService) ListarPorDia(ctx context.Context, r dto.RangoFechas) ([]dto.ResumenDiarioResponse, error) {
	desde, hasta, err := rangoDias(r.Desde, r.Hasta, s.now(), s.loc, 30)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ResumenPorDia(ctx, desde, hasta, s.loc.String())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ResumenDiarioResponse, len(rows))
	for i, row := range rows {
		out[i] = dto.ResumenDiarioResponse{
			Fecha:            row.Fecha.Format(layoutFecha),
			TotalAsistencias: row.TotalAsistencias,
			UsuariosUnicos:   row.UsuariosUnicos,
		}
	}
	return out, nil
}

func (s *asistenciaService) ListarAdmin(ctx context.Context, q dto.AsistenciaQuery) (*dto.AsistenciaListResponse, error) {
	f, err := s.filtro(q)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.repo.ListConUsuario(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.AsistenciaAdminItem, len(rows))
	for i := range rows {
		data[i] = dto.AsistenciaAdminItem{
			AsistenciaResponse: mapAsistencia(&rows[i].Asistencia),
			Username:           rows[i].Username,
			Nombre:             rows[i].Nombre,
			Apellido:           rows[i].Apellido,
		}
	}
	return &dto.AsistenciaListResponse{Data: data, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}
