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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type UsuarioService interface {
	Listar(ctx context.Context, estado string) ([]dto.UsuarioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	ObtenerPorUsername(ctx context.Context, username string) (*dto.UsuarioResponse, error)
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	// Eliminar is logical: the row stays with estado=inactivo.
	Eliminar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error

	ListarRoles(ctx context.Context, id uuid.UUID) ([]dto.RolResponse, error)
	AsignarRol(ctx context.Context, id, rolID uuid.UUID) error
	RemoverRol(ctx context.Context, id, rolID uuid.UUID) error

	ObtenerCliente(ctx context.Context, usuarioID uuid.UUID) (*dto.ClienteResponse, error)
	ActualizarCliente(ctx context.Context, usuarioID uuid.UUID, req dto.ClientePerfilRequest) (*dto.ClienteResponse, error)
}

type usuarioService struct {
	altas    altaUsuario
	usuarios repository.UsuarioRepository
	clientes repository.ClienteRepository
	roles    repository.RolRepository
}

func NewUsuarioService(
	usuarios repository.UsuarioRepository,
	clientes repository.ClienteRepository,
	roles repository.RolRepository,
) UsuarioService {
	return &usuarioService{
		altas:    altaUsuario{usuarios: usuarios, clientes: clientes, roles: roles, now: time.Now},
		usuarios: usuarios,
		clientes: clientes,
		roles:    roles,
	}
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func nombreRol(u *model.Usuario) string {
	if u.Rol != nil {
		return u.Rol.Nombre
	}
	return ""
}

func mapUsuario(u *model.Usuario, roles []string) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:              u.ID.String(),
		Rol:             nombreRol(u),
		Roles:           roles,
		Nombre:          u.Nombre,
		Apellido:        u.Apellido,
		Email:           u.Email,
		Telefono:        u.Telefono,
		FechaNacimiento: formatFechaPtr(u.FechaNacimiento),
		Genero:          u.Genero,
		FotoPerfil:      u.FotoPerfil,
		Username:        u.Username,
		Estado:          u.Estado,
		FechaRegistro:   formatTS(u.FechaRegistro),
	}
}

func mapCliente(c *model.Cliente) dto.ClienteResponse {
	return dto.ClienteResponse{
		ID:                 c.ID.String(),
		IDUsuario:          c.UsuarioID.String(),
		TipoSangre:         c.TipoSangre,
		PesoActual:         c.PesoActual,
		Altura:             c.Altura,
		CondicionesMedicas: c.CondicionesMedicas,
		ContactoEmergencia: c.ContactoEmergencia,
		TelefonoEmergencia: c.TelefonoEmergencia,
	}
}

func aplicarPerfil(c *model.Cliente, p *dto.ClientePerfilRequest) {
	if p == nil {
		return
	}
	if p.TipoSangre != nil {
		c.TipoSangre = p.TipoSangre
	}
	if p.PesoActual != nil {
		c.PesoActual = p.PesoActual
	}
	if p.Altura != nil {
		c.Altura = p.Altura
	}
	if p.CondicionesMedicas != nil {
		c.CondicionesMedicas = p.CondicionesMedicas
	}
	if p.ContactoEmergencia != nil {
		c.ContactoEmergencia = p.ContactoEmergencia
	}
	if p.TelefonoEmergencia != nil {
		c.TelefonoEmergencia = p.TelefonoEmergencia
	}
}

// ── Alta ──────────────────────────────────────────────────────────────────────

// altaUsuario creates a user and, for clients, its profile in one transaction.
// Shared by the admin create and the public sign-up.
type altaUsuario struct {
	usuarios repository.UsuarioRepository
	clientes repository.ClienteRepository
	roles    repository.RolRepository
	now      func() time.Time
}

func (a altaUsuario) crear(ctx context.Context, req dto.CrearUsuarioRequest) (*model.Usuario, error) {
	rolNombre := req.Rol
	if rolNombre == "" {
		rolNombre = model.RolCliente
	}
	rol, err := a.roles.FindByNombre(ctx, rolNombre)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalido("Rol inexistente: " + rolNombre)
		}
		return nil, err
	}

	fechaNac, err := fechaPtr(req.FechaNacimiento)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &model.Usuario{
		RolID:           rol.ID,
		Nombre:          strings.TrimSpace(req.Nombre),
		Apellido:        strings.TrimSpace(req.Apellido),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Telefono:        req.Telefono,
		FechaNacimiento: fechaNac,
		Genero:          req.Genero,
		Username:        strings.TrimSpace(req.Username),
		PasswordHash:    string(hash),
		Estado:          model.EstadoUsuarioActivo,
		FechaRegistro:   a.now(),
	}

	err = runTx(ctx, a.usuarios.DB(), func(tx *gorm.DB) error {
		if err := a.usuarios.CreateTx(tx, u); err != nil {
			return err
		}
		if rolNombre != model.RolCliente && req.Cliente == nil {
			return nil
		}
		c := &model.Cliente{UsuarioID: u.ID}
		aplicarPerfil(c, req.Cliente)
		return a.clientes.CreateTx(tx, c)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("El email o el username ya estan registrados")
		}
		return nil, err
	}
	u.Rol = rol
	return u, nil
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

func (s *usuarioService) Listar(ctx context.Context, estado string) ([]dto.UsuarioResponse, error) {
	users, err := s.usuarios.List(ctx, estado)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = mapUsuario(&users[i], nil)
	}
	return resp, nil
}

func (s *usuarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Usuario no encontrado")
	}
	return s.conRoles(ctx, u)
}

func (s *usuarioService) ObtenerPorUsername(ctx context.Context, username string) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFoundAs(err, "Usuario no encontrado")
	}
	return s.conRoles(ctx, u)
}

func (s *usuarioService) conRoles(ctx context.Context, u *model.Usuario) (*dto.UsuarioResponse, error) {
	roles, err := s.usuarios.NombresDeRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	resp := mapUsuario(u, roles)
	return &resp, nil
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.altas.crear(ctx, req)
	if err != nil {
		return nil, err
	}
	resp := mapUsuario(u, []string{nombreRol(u)})
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Usuario no encontrado")
	}

	if req.Nombre != nil {
		u.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Apellido != nil {
		u.Apellido = strings.TrimSpace(*req.Apellido)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Telefono != nil {
		u.Telefono = req.Telefono
	}
	if req.FechaNacimiento != nil {
		if u.FechaNacimiento, err = fechaPtr(req.FechaNacimiento); err != nil {
			return nil, err
		}
	}
	if req.Genero != nil {
		u.Genero = req.Genero
	}
	if req.Estado != nil {
		u.Estado = *req.Estado
	}
	if req.Rol != nil && (u.Rol == nil || *req.Rol != u.Rol.Nombre) {
		rol, err := s.roles.FindByNombre(ctx, *req.Rol)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalido("Rol inexistente: " + *req.Rol)
			}
			return nil, err
		}
		u.RolID = rol.ID
		u.Rol = rol
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.usuarios.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicado) {
			return nil, conflicto("El email ya esta registrado")
		}
		return nil, err
	}
	return s.conRoles(ctx, u)
}

func (s *usuarioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, model.EstadoUsuarioInactivo)
}

func (s *usuarioService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.cambiarEstado(ctx, id, model.EstadoUsuarioActivo)
}

func (s *usuarioService) cambiarEstado(ctx context.Context, id uuid.UUID, estado string) error {
	n, err := s.usuarios.SetEstado(ctx, id, estado)
	if err != nil {
		return err
	}
	if n == 0 {
		return noEncontrado("Usuario no encontrado")
	}
	return nil
}

// ── Roles adicionales ─────────────────────────────────────────────────────────

// ListarRoles returns the primary role first, then the extra ones.
func (s *usuarioService) ListarRoles(ctx context.Context, id uuid.UUID) ([]dto.RolResponse, error) {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Usuario no encontrado")
	}
	extra, err := s.usuarios.RolesAsignados(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RolResponse, 0, len(extra)+1)
	if u.Rol != nil {
		out = append(out, mapRol(u.Rol))
	}
	for i := range extra {
		if extra[i].ID == u.RolID {
			continue
		}
		out = append(out, mapRol(&extra[i]))
	}
	return out, nil
}

func (s *usuarioService) AsignarRol(ctx context.Context, id, rolID uuid.UUID) error {
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil {
		return notFoundAs(err, "Usuario no encontrado")
	}
	if _, err := s.roles.FindByID(ctx, rolID); err != nil {
		return notFoundAs(err, "Rol no encontrado")
	}
	if u.RolID == rolID {
		return conflicto("El rol ya es el rol principal del usuario")
	}
	err = s.usuarios.AsignarRol(ctx, &model.UsuarioRol{UsuarioID: id, RolID: rolID, FechaAsignacion: time.Now()})
	if errors.Is(err, repository.ErrDuplicado) {
		return conflicto("El usuario ya tiene ese rol asignado")
	}
	return err
}

func (s *usuarioService) RemoverRol(ctx context.Context, id, rolID uuid.UUID) error {
	n, err := s.usuarios.RemoverRol(ctx, id, rolID)
	if err != nil {
		return err
	}
	if n == 0 {
		return noEncontrado("El usuario no tiene ese rol asignado")
	}
	return nil
}

// ── Perfil de cliente ─────────────────────────────────────────────────────────

func (s *usuarioService) ObtenerCliente(ctx context.Context, usuarioID uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, notFoundAs(err, "Perfil de cliente no encontrado")
	}
	resp := mapCliente(c)
	return &resp, nil
}

func (s *usuarioService) ActualizarCliente(ctx context.Context, usuarioID uuid.UUID, req dto.ClientePerfilRequest) (*dto.ClienteResponse, error) {
	c, err := s.clientes.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, notFoundAs(err, "Perfil de cliente no encontrado")
	}
	aplicarPerfil(c, &req)
	if err := s.clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCliente(c)
	return &resp, nil
}
