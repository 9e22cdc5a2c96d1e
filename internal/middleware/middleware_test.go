package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gimnasio/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func signToken(t *testing.T, userID, rol, typ string, roles []string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID, "username": "testuser", "rol": rol, "roles": roles, "typ": typ,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), JWTAuth(testSecret))
	h := []gin.HandlerFunc{}
	if len(roles) > 0 {
		h = append(h, RequireRole(roles...))
	}
	h = append(h, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c).String(), "roles": GetClaims(c).AllRoles()})
	})
	r.GET("/protected", h...)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierror.APIError {
	t.Helper()
	var body apierror.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJWTAuth(t *testing.T) {
	r := protectedRouter()
	uid := uuid.NewString()

	t.Run("sin header", func(t *testing.T) {
		w := get(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apierror.CodeUnauthorized, decodeError(t, w).Code)
	})
	t.Run("token valido", func(t *testing.T) {
		w := get(r, signToken(t, uid, "admin", "access", nil, time.Hour))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), uid)
	})
	t.Run("token expirado", func(t *testing.T) {
		w := get(r, signToken(t, uid, "admin", "access", nil, -time.Minute))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("refresh token no sirve como acceso", func(t *testing.T) {
		w := get(r, signToken(t, uid, "admin", "refresh", nil, time.Hour))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("firma incorrecta", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uid, "typ": "access", "exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("otro-secreto"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, tok).Code)
	})
	t.Run("user_id invalido", func(t *testing.T) {
		w := get(r, signToken(t, "no-es-uuid", "admin", "access", nil, time.Hour))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := protectedRouter("admin", "recepcion")
	uid := uuid.NewString()

	assert.Equal(t, http.StatusOK, get(r, signToken(t, uid, "recepcion", "access", nil, time.Hour)).Code)

	w := get(r, signToken(t, uid, "cliente", "access", nil, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierror.CodeForbidden, decodeError(t, w).Code)

	// an extra assigned role is enough
	w = get(r, signToken(t, uid, "cliente", "access", []string{"cliente", "recepcion"}, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"roles":["cliente","recepcion"]`)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 200))
	r.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apierror.CodeInternal, body.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestLimiter(t *testing.T) {
	now := time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)
	l := &limiter{limit: 2, window: time.Minute, entries: map[string]*ventana{}, now: func() time.Time { return now }}

	ok, _ := l.allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.allow("1.1.1.1")
	assert.True(t, ok)
	ok, _ = l.allow("1.1.1.1")
	assert.False(t, ok)
	ok, _ = l.allow("2.2.2.2")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = l.allow("1.1.1.1")
	assert.True(t, ok)
	assert.Equal(t, 1, l.purge())
}

func TestLimiterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := &limiter{limit: 1, window: time.Minute, mensaje: "lento", entries: map[string]*ventana{}, now: time.Now}
	r := gin.New()
	r.Use(l.handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apierror.CodeTooManyRequests, decodeError(t, w).Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
