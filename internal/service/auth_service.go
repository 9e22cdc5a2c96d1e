package service

import (
	"context"
	"errors"
	"time"

	"gimnasio/internal/config"
	"gimnasio/internal/dto"
	"gimnasio/internal/model"
	"gimnasio/internal/repository"
	"gimnasio/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Token types carried in the "typ" claim.
const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"
)

// SesionMeta describes the client a session is opened from.
type SesionMeta struct {
	IP          string
	Dispositivo string
}

// EmailEnqueuer is satisfied by *worker.Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, job worker.EmailJob) error
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, meta SesionMeta) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string, meta SesionMeta) (*dto.LoginResponse, error)
	Registro(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error)
	Perfil(ctx context.Context, usuarioID uuid.UUID) (*dto.PerfilResponse, error)
}

type authService struct {
	altas    altaUsuario
	usuarios repository.UsuarioRepository
	clientes repository.ClienteRepository
	sesiones repository.SesionRepository
	emails   EmailEnqueuer
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(
	usuarios repository.UsuarioRepository,
	clientes repository.ClienteRepository,
	roles repository.RolRepository,
	sesiones repository.SesionRepository,
	emails EmailEnqueuer,
	cfg *config.Config,
) AuthService {
	return &authService{
		altas:    altaUsuario{usuarios: usuarios, clientes: clientes, roles: roles, now: time.Now},
		usuarios: usuarios,
		clientes: clientes,
		sesiones: sesiones,
		emails:   emails,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, meta SesionMeta) (*dto.LoginResponse, error) {
	user, err := s.usuarios.FindByLogin(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noAutorizado("Credenciales invalidas")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, noAutorizado("Credenciales invalidas")
	}
	if !user.Activo() {
		return nil, prohibido("Usuario " + user.Estado)
	}
	return s.emitir(ctx, user, meta, nil)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string, meta SesionMeta) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, noAutorizado("Refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != TokenRefresco {
		return nil, noAutorizado("Refresh token invalido o expirado")
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, noAutorizado("Token mal formado")
	}

	user, err := s.usuarios.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, noAutorizado("Usuario no encontrado")
		}
		return nil, err
	}
	if !user.Activo() {
		return nil, prohibido("Usuario " + user.Estado)
	}

	var anterior *string
	if jti, ok := claims["jti"].(string); ok && jti != "" {
		anterior = &jti
	}
	return s.emitir(ctx, user, meta, anterior)
}

// Registro is the public sign-up: always the cliente role plus its profile.
// The welcome email is best effort.
func (s *authService) Registro(ctx context.Context, req dto.RegistroRequest) (*dto.UsuarioResponse, error) {
	u, err := s.altas.crear(ctx, dto.CrearUsuarioRequest{
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		Email:           req.Email,
		Telefono:        req.Telefono,
		FechaNacimiento: req.FechaNacimiento,
		Genero:          req.Genero,
		Username:        req.Username,
		Password:        req.Password,
		Rol:             model.RolCliente,
		Cliente:         req.Cliente,
	})
	if err != nil {
		return nil, err
	}

	if s.emails != nil {
		if err := s.emails.EnqueueEmail(ctx, worker.EmailBienvenida(u.Email, u.Nombre, u.Username)); err != nil {
			log.Error().Err(err).Str("usuario_id", u.ID.String()).Msg("no se pudo encolar el email de bienvenida")
		}
	}

	resp := mapUsuario(u, []string{model.RolCliente})
	return &resp, nil
}

func (s *authService) Perfil(ctx context.Context, usuarioID uuid.UUID) (*dto.PerfilResponse, error) {
	u, err := s.usuarios.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, notFoundAs(err, "Usuario no encontrado")
	}
	roles, err := s.usuarios.NombresDeRoles(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	resp := &dto.PerfilResponse{Usuario: mapUsuario(u, roles)}
	c, err := s.clientes.FindByUsuarioID(ctx, usuarioID)
	switch {
	case err == nil:
		cr := mapCliente(c)
		resp.Cliente = &cr
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return resp, nil
}

// emitir signs an access/refresh pair sharing one jti and persists the session.
func (s *authService) emitir(ctx context.Context, u *model.Usuario, meta SesionMeta, anterior *string) (*dto.LoginResponse, error) {
	roles, err := s.usuarios.NombresDeRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	jti := uuid.NewString()
	accessExp := now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)
	refreshExp := now.Add(time.Duration(s.cfg.JWTRefreshHours) * time.Hour)

	access, err := s.firmar(u, roles, TokenAcceso, jti, now, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := s.firmar(u, roles, TokenRefresco, jti, now, refreshExp)
	if err != nil {
		return nil, err
	}

	ses := &model.Sesion{
		UsuarioID:       u.ID,
		TokenID:         jti,
		TokenAnterior:   anterior,
		FechaInicio:     now,
		FechaExpiracion: refreshExp,
		Estado:          model.EstadoSesionActiva,
		IP:              optString(meta.IP),
		Dispositivo:     optString(meta.Dispositivo),
	}
	if err := s.sesiones.Create(ctx, ses); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapUsuario(u, roles),
	}, nil
}

func (s *authService) firmar(u *model.Usuario, roles []string, typ, jti string, iat, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"rol":      nombreRol(u),
		"roles":    roles,
		"typ":      typ,
		"jti":      jti,
		"iat":      iat.Unix(),
		"exp":      exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
