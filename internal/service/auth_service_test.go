package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gimnasio/internal/config"
	"gimnasio/internal/dto"
	"gimnasio/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

type authFixture struct {
	svc      AuthService
	usuarios *stubUsuarioRepo
	roles    *stubRolRepo
	clientes *stubClienteRepo
	sesiones *stubSesionRepo
	emails   *stubEmails
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		usuarios: newStubUsuarioRepo(),
		roles:    newStubRolRepo(),
		clientes: newStubClienteRepo(),
		sesiones: &stubSesionRepo{},
		emails:   &stubEmails{},
	}
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 1, JWTRefreshHours: 24}
	f.svc = NewAuthService(f.usuarios, f.clientes, f.roles, f.sesiones, f.emails, cfg)
	return f
}

func (f *authFixture) seed(t *testing.T, username, password, rol, estado string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	r := f.roles.rol(rol)
	u := &model.Usuario{
		ID:           uuid.New(),
		RolID:        r.ID,
		Rol:          r,
		Nombre:       "Test",
		Apellido:     "User",
		Email:        username + "@gym.test",
		Username:     username,
		PasswordHash: string(hash),
		Estado:       estado,
	}
	f.usuarios.users[u.ID] = u
	return u
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestLogin_EmiteParYSesion(t *testing.T) {
	f := newAuthFixture()
	u := f.seed(t, "recepcion1", "secreta123", model.RolRecepcion, model.EstadoUsuarioActivo)

	resp, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "recepcion1@gym.test", Password: "secreta123"},
		SesionMeta{IP: "10.0.0.7", Dispositivo: "curl/8"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, u.ID.String(), resp.User.ID)

	access := parseClaims(t, resp.AccessToken)
	refresh := parseClaims(t, resp.RefreshToken)
	assert.Equal(t, TokenAcceso, access["typ"])
	assert.Equal(t, TokenRefresco, refresh["typ"])
	assert.Equal(t, model.RolRecepcion, access["rol"])
	assert.Equal(t, access["jti"], refresh["jti"])

	require.Len(t, f.sesiones.sesiones, 1)
	ses := f.sesiones.sesiones[0]
	assert.Equal(t, access["jti"], ses.TokenID)
	require.NotNil(t, ses.IP)
	assert.Equal(t, "10.0.0.7", *ses.IP)
	assert.Nil(t, ses.TokenAnterior)
}

func TestLogin_Rechazos(t *testing.T) {
	f := newAuthFixture()
	f.seed(t, "ana", "secreta123", model.RolCliente, model.EstadoUsuarioActivo)
	f.seed(t, "baja", "secreta123", model.RolCliente, model.EstadoUsuarioInactivo)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "otra"}, SesionMeta{})
	assert.ErrorIs(t, err, ErrNoAutorizado)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreta123"}, SesionMeta{})
	assert.ErrorIs(t, err, ErrNoAutorizado)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "baja", Password: "secreta123"}, SesionMeta{})
	assert.ErrorIs(t, err, ErrProhibido)
	assert.Empty(t, f.sesiones.sesiones)
}

func TestRefresh_EncadenaLaSesion(t *testing.T) {
	f := newAuthFixture()
	f.seed(t, "ana", "secreta123", model.RolCliente, model.EstadoUsuarioActivo)
	ctx := context.Background()

	login, err := f.svc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreta123"}, SesionMeta{})
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, login.AccessToken, SesionMeta{})
	assert.ErrorIs(t, err, ErrNoAutorizado, "an access token cannot be used to refresh")

	nuevo, err := f.svc.Refresh(ctx, login.RefreshToken, SesionMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, login.AccessToken, nuevo.AccessToken)

	require.Len(t, f.sesiones.sesiones, 2)
	anterior := f.sesiones.sesiones[1].TokenAnterior
	require.NotNil(t, anterior)
	assert.Equal(t, f.sesiones.sesiones[0].TokenID, *anterior)
}

func TestRefresh_TokenExpirado(t *testing.T) {
	f := newAuthFixture()
	u := f.seed(t, "ana", "secreta123", model.RolCliente, model.EstadoUsuarioActivo)

	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"typ":     TokenRefresco,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), token, SesionMeta{})
	assert.ErrorIs(t, err, ErrNoAutorizado)
}

func registroValido() dto.RegistroRequest {
	return dto.RegistroRequest{
		Nombre:   "Lucia",
		Apellido: "Gomez",
		Email:    "Lucia@Gym.test",
		Username: "lucia",
		Password: "secreta123",
	}
}

func TestRegistro_CreaClienteYEncolaBienvenida(t *testing.T) {
	f := newAuthFixture()

	u, err := f.svc.Registro(context.Background(), registroValido())
	require.NoError(t, err)
	assert.Equal(t, "lucia@gym.test", u.Email)
	assert.Equal(t, model.RolCliente, u.Rol)

	_, err = f.clientes.FindByUsuarioID(context.Background(), uuid.MustParse(u.ID))
	assert.NoError(t, err)

	require.Len(t, f.emails.jobs, 1)
	assert.Equal(t, "lucia@gym.test", f.emails.jobs[0].To)
}

func TestRegistro_FalloDeColaNoAfectaLaRespuesta(t *testing.T) {
	f := newAuthFixture()
	f.emails.err = errors.New("redis caido")

	u, err := f.svc.Registro(context.Background(), registroValido())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
}

func TestRegistro_Duplicado(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Registro(context.Background(), registroValido())
	require.NoError(t, err)

	_, err = f.svc.Registro(context.Background(), registroValido())
	assert.ErrorIs(t, err, ErrConflicto)
	assert.Len(t, f.emails.jobs, 1)
}

func TestPerfil(t *testing.T) {
	f := newAuthFixture()
	u, err := f.svc.Registro(context.Background(), registroValido())
	require.NoError(t, err)

	p, err := f.svc.Perfil(context.Background(), uuid.MustParse(u.ID))
	require.NoError(t, err)
	assert.Equal(t, "lucia", p.Usuario.Username)
	assert.NotNil(t, p.Cliente)

	_, err = f.svc.Perfil(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoEncontrado)
}
