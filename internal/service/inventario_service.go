package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dirFotosEquipos = "img/equipos"
	fotoMaxLado     = 1024
)

// InventarioService covers equipment and its maintenance records.
// Maintenance transitions move the equipment state in the same transaction:
//
//	EnProceso   → equipo EnMantenimiento
//	Completado  → equipo Operativo (fecha_realizada defaults to today)
type InventarioService interface {
	CrearEquipo(ctx context.Context, req dto.CrearEquipoRequest) (*dto.EquipoResponse, error)
	ListarEquipos(ctx context.Context, f dto.EquipoFilter) ([]dto.EquipoResponse, error)
	ObtenerEquipo(ctx context.Context, id uuid.UUID) (*dto.EquipoResponse, error)
	ActualizarEquipo(ctx context.Context, id uuid.UUID, req dto.ActualizarEquipoRequest) (*dto.EquipoResponse, error)
	EliminarEquipo(ctx context.Context, id uuid.UUID) error
	SubirFotoEquipo(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*dto.EquipoResponse, error)

	CrearMantenimiento(ctx context.Context, req dto.CrearMantenimientoRequest) (*dto.MantenimientoResponse, error)
	ListarMantenimientos(ctx context.Context, f dto.MantenimientoFilter) ([]dto.MantenimientoResponse, error)
	ObtenerMantenimiento(ctx context.Context, id uuid.UUID) (*dto.MantenimientoResponse, error)
	ActualizarMantenimiento(ctx context.Context, id uuid.UUID, req dto.ActualizarMantenimientoRequest) (*dto.MantenimientoResponse, error)
	EliminarMantenimiento(ctx context.Context, id uuid.UUID) error
}

type inventarioService struct {
	equipos        repository.EquipoRepository
	categorias     repository.CategoriaEquipoRepository
	mantenimientos repository.MantenimientoRepository
	storage        ArchivoStorage
	loc            *time.Location
	now            func() time.Time
}

func NewInventarioService(
	equipos repository.EquipoRepository,
	categorias repository.CategoriaEquipoRepository,
	mantenimientos repository.MantenimientoRepository,
	storage ArchivoStorage,
	loc *time.Location,
) InventarioService {
	return &inventarioService{
		equipos:        equipos,
		categorias:     categorias,
		mantenimientos: mantenimientos,
		storage:        storage,
		loc:            loc,
		now:            time.Now,
	}
}

// ── Equipos ───────────────────────────────────────────────────────────────────

func mapEquipo(e *model.Equipo) dto.EquipoResponse {
	resp := dto.EquipoResponse{
		ID:           e.ID.String(),
		IDCategoria:  e.CategoriaID.String(),
		NombreEquipo: e.NombreEquipo,
		Marca:        e.Marca,
		Modelo:       e.Modelo,
		NumeroSerie:  e.NumeroSerie,
		Descripcion:  e.Descripcion,
		FechaCompra:  formatFechaPtr(e.FechaCompra),
		Costo:        e.Costo,
		Ubicacion:    e.Ubicacion,
		Estado:       e.Estado,
		Foto:         e.Foto,
	}
	if e.Categoria != nil {
		resp.NombreCategoria = e.Categoria.NombreCategoria
	}
	return resp
}

func (s *inventarioService) categoria(ctx context.Context, raw string) (*model.CategoriaEquipo, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalido("id_categoria invalido")
	}
	c, err := s.categorias.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Categoria no encontrada")
	}
	return c, nil
}

func costoValido(e *model.Equipo) error {
	if e.Costo != nil && e.Costo.IsNegative() {
		return invalido("El costo no puede ser negativo")
	}
	return nil
}

func (s *inventarioService) CrearEquipo(ctx context.Context, req dto.CrearEquipoRequest) (*dto.EquipoResponse, error) {
	cat, err := s.categoria(ctx, req.IDCategoria)
	if err != nil {
		return nil, err
	}
	fecha, err := fechaPtr(req.FechaCompra)
	if err != nil {
		return nil, err
	}
	estado := req.Estado
	if estado == "" {
		estado = model.EstadoEquipoOperativo
	}

	e := &model.Equipo{
		CategoriaID:  cat.ID,
		NombreEquipo: strings.TrimSpace(req.NombreEquipo),
		Marca:        req.Marca,
		Modelo:       req.Modelo,
		NumeroSerie:  req.NumeroSerie,
		Descripcion:  req.Descripcion,
		FechaCompra:  fecha,
		Costo:        req.Costo,
		Ubicacion:    req.Ubicacion,
		Estado:       estado,
	}
	if err := costoValido(e); err != nil {
		return nil, err
	}
	if err := s.equipos.Crear(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("Ya existe un equipo con ese numero de serie")
		}
		return nil, err
	}
	e.Categoria = cat
	resp := mapEquipo(e)
	return &resp, nil
}

func (s *inventarioService) ListarEquipos(ctx context.Context, f dto.EquipoFilter) ([]dto.EquipoResponse, error) {
	rf := repository.EquipoFilter{Estado: f.Estado}
	if f.IDCategoria != "" {
		id, _ := uuid.Parse(f.IDCategoria)
		rf.CategoriaID = &id
	}
	list, err := s.equipos.Listar(ctx, rf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EquipoResponse, len(list))
	for i := range list {
		out[i] = mapEquipo(&list[i])
	}
	return out, nil
}

func (s *inventarioService) ObtenerEquipo(ctx context.Context, id uuid.UUID) (*dto.EquipoResponse, error) {
	e, err := s.equipos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Equipo no encontrado")
	}
	resp := mapEquipo(e)
	return &resp, nil
}

func (s *inventarioService) ActualizarEquipo(ctx context.Context, id uuid.UUID, req dto.ActualizarEquipoRequest) (*dto.EquipoResponse, error) {
	e, err := s.equipos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Equipo no encontrado")
	}
	if req.IDCategoria != nil {
		cat, err := s.categoria(ctx, *req.IDCategoria)
		if err != nil {
			return nil, err
		}
		e.CategoriaID = cat.ID
		e.Categoria = cat
	}
	if req.NombreEquipo != nil {
		e.NombreEquipo = strings.TrimSpace(*req.NombreEquipo)
	}
	if req.Marca != nil {
		e.Marca = req.Marca
	}
	if req.Modelo != nil {
		e.Modelo = req.Modelo
	}
	if req.NumeroSerie != nil {
		e.NumeroSerie = req.NumeroSerie
	}
	if req.Descripcion != nil {
		e.Descripcion = req.Descripcion
	}
	if req.FechaCompra != nil {
		if e.FechaCompra, err = fechaPtr(req.FechaCompra); err != nil {
			return nil, err
		}
	}
	if req.Costo != nil {
		e.Costo = req.Costo
	}
	if req.Ubicacion != nil {
		e.Ubicacion = req.Ubicacion
	}
	if req.Estado != nil {
		e.Estado = *req.Estado
	}
	if err := costoValido(e); err != nil {
		return nil, err
	}
	if err := s.equipos.Actualizar(ctx, e); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("Ya existe un equipo con ese numero de serie")
		}
		return nil, err
	}
	resp := mapEquipo(e)
	return &resp, nil
}

func (s *inventarioService) EliminarEquipo(ctx context.Context, id uuid.UUID) error {
	e, err := s.equipos.ObtenerPorID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Equipo no encontrado")
	}
	if _, err := s.equipos.Eliminar(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenciaInvalida) {
			return conflicto("El equipo tiene mantenimientos registrados")
		}
		return err
	}
	if e.Foto != nil {
		s.storage.Remove(*e.Foto)
	}
	return nil
}

func (s *inventarioService) SubirFotoEquipo(ctx context.Context, id uuid.UUID, fh *multipart.FileHeader) (*dto.EquipoResponse, error) {
	e, err := s.equipos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Equipo no encontrado")
	}
	url, err := s.storage.SaveImage(fh, dirFotosEquipos, fotoMaxLado)
	if err != nil {
		return nil, archivoError(err)
	}
	anterior := e.Foto
	e.Foto = &url
	if err := s.equipos.Actualizar(ctx, e); err != nil {
		s.storage.Remove(url)
		return nil, err
	}
	if anterior != nil {
		s.storage.Remove(*anterior)
	}
	resp := mapEquipo(e)
	return &resp, nil
}

// ── Mantenimientos ────────────────────────────────────────────────────────────

func mapMantenimiento(m *model.Mantenimiento) dto.MantenimientoResponse {
	return dto.MantenimientoResponse{
		ID:                   m.ID.String(),
		IDEquipo:             m.EquipoID.String(),
		TipoMantenimiento:    m.TipoMantenimiento,
		FechaProgramada:      formatFecha(m.FechaProgramada),
		FechaRealizada:       formatFechaPtr(m.FechaRealizada),
		DescripcionTrabajo:   m.DescripcionTrabajo,
		TecnicoResponsable:   m.TecnicoResponsable,
		Costo:                m.Costo,
		Estado:               m.Estado,
		ProximoMantenimiento: formatFechaPtr(m.ProximoMantenimiento),
		Notas:                m.Notas,
	}
}

// estadoEquipoPara returns the equipment state implied by a maintenance state,
// or "" when the equipment should be left alone.
func estadoEquipoPara(estadoMantenimiento string) string {
	switch estadoMantenimiento {
	case model.EstadoMantenimientoEnProceso:
		return model.EstadoEquipoEnMantenimiento
	case model.EstadoMantenimientoCompletado:
		return model.EstadoEquipoOperativo
	}
	return ""
}

func (s *inventarioService) hoy() *datatypes.Date {
	d := datatypes.Date(inicioDelDia(s.now(), s.loc))
	return &d
}

func (s *inventarioService) CrearMantenimiento(ctx context.Context, req dto.CrearMantenimientoRequest) (*dto.MantenimientoResponse, error) {
	equipoID, _ := uuid.Parse(req.IDEquipo)
	if _, err := s.equipos.ObtenerPorID(ctx, equipoID); err != nil {
		return nil, notFoundAs(err, "Equipo no encontrado")
	}
	programada, err := parseFecha(req.FechaProgramada, time.UTC)
	if err != nil {
		return nil, err
	}
	realizada, err := fechaPtr(req.FechaRealizada)
	if err != nil {
		return nil, err
	}
	proximo, err := fechaPtr(req.ProximoMantenimiento)
	if err != nil {
		return nil, err
	}
	if req.Costo != nil && req.Costo.IsNegative() {
		return nil, invalido("El costo no puede ser negativo")
	}
	estado := req.Estado
	if estado == "" {
		estado = model.EstadoMantenimientoProgramado
	}

	m := &model.Mantenimiento{
		EquipoID:             equipoID,
		TipoMantenimiento:    req.TipoMantenimiento,
		FechaProgramada:      datatypes.Date(programada),
		FechaRealizada:       realizada,
		DescripcionTrabajo:   req.DescripcionTrabajo,
		TecnicoResponsable:   req.TecnicoResponsable,
		Costo:                req.Costo,
		Estado:               estado,
		ProximoMantenimiento: proximo,
		Notas:                req.Notas,
	}
	if m.Estado == model.EstadoMantenimientoCompletado && m.FechaRealizada == nil {
		m.FechaRealizada = s.hoy()
	}

	err = runTx(ctx, s.equipos.DB(), func(tx *gorm.DB) error {
		if err := s.mantenimientos.CrearTx(tx, m); err != nil {
			return err
		}
		if nuevo := estadoEquipoPara(m.Estado); nuevo != "" {
			return s.equipos.CambiarEstadoTx(tx, equipoID, nuevo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mapMantenimiento(m)
	return &resp, nil
}

func (s *inventarioService) ListarMantenimientos(ctx context.Context, f dto.MantenimientoFilter) ([]dto.MantenimientoResponse, error) {
	rf := repository.MantenimientoFilter{Estado: f.Estado}
	if f.IDEquipo != "" {
		id, _ := uuid.Parse(f.IDEquipo)
		rf.EquipoID = &id
	}
	list, err := s.mantenimientos.Listar(ctx, rf)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MantenimientoResponse, len(list))
	for i := range list {
		out[i] = mapMantenimiento(&list[i])
	}
	return out, nil
}

func (s *inventarioService) ObtenerMantenimiento(ctx context.Context, id uuid.UUID) (*dto.MantenimientoResponse, error) {
	m, err := s.mantenimientos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Mantenimiento no encontrado")
	}
	resp := mapMantenimiento(m)
	return &resp, nil
}

func (s *inventarioService) ActualizarMantenimiento(ctx context.Context, id uuid.UUID, req dto.ActualizarMantenimientoRequest) (*dto.MantenimientoResponse, error) {
	m, err := s.mantenimientos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Mantenimiento no encontrado")
	}
	estadoAnterior := m.Estado

	if req.TipoMantenimiento != nil {
		m.TipoMantenimiento = *req.TipoMantenimiento
	}
	if req.FechaProgramada != nil {
		t, err := parseFecha(*req.FechaProgramada, time.UTC)
		if err != nil {
			return nil, err
		}
		m.FechaProgramada = datatypes.Date(t)
	}
	if req.FechaRealizada != nil {
		if m.FechaRealizada, err = fechaPtr(req.FechaRealizada); err != nil {
			return nil, err
		}
	}
	if req.DescripcionTrabajo != nil {
		m.DescripcionTrabajo = req.DescripcionTrabajo
	}
	if req.TecnicoResponsable != nil {
		m.TecnicoResponsable = req.TecnicoResponsable
	}
	if req.Costo != nil {
		if req.Costo.IsNegative() {
			return nil, invalido("El costo no puede ser negativo")
		}
		m.Costo = req.Costo
	}
	if req.ProximoMantenimiento != nil {
		if m.ProximoMantenimiento, err = fechaPtr(req.ProximoMantenimiento); err != nil {
			return nil, err
		}
	}
	if req.Notas != nil {
		m.Notas = req.Notas
	}
	if req.Estado != nil {
		m.Estado = *req.Estado
	}
	if m.Estado == model.EstadoMantenimientoCompletado && m.FechaRealizada == nil {
		m.FechaRealizada = s.hoy()
	}

	err = runTx(ctx, s.equipos.DB(), func(tx *gorm.DB) error {
		if err := s.mantenimientos.ActualizarTx(tx, m); err != nil {
			return err
		}
		if m.Estado == estadoAnterior {
			return nil
		}
		if nuevo := estadoEquipoPara(m.Estado); nuevo != "" {
			return s.equipos.CambiarEstadoTx(tx, m.EquipoID, nuevo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mapMantenimiento(m)
	return &resp, nil
}

func (s *inventarioService) EliminarMantenimiento(ctx context.Context, id uuid.UUID) error {
	n, err := s.mantenimientos.Eliminar(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return noEncontrado("Mantenimiento no encontrado")
	}
	return nil
}
