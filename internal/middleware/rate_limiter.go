package middleware

import (
	"net/http"
	"sync"
	"time"

	"gimnasio/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana counts requests from one IP inside a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
}

// limiter is a fixed-window per-IP request counter. Expired entries are
// purged in the background so IPs that never return do not accumulate.
type limiter struct {
	nombre  string
	limit   int
	window  time.Duration
	mensaje string

	mu      sync.Mutex
	entries map[string]*ventana
	now     func() time.Time
}

func newLimiter(nombre string, limit int, window time.Duration, mensaje string) *limiter {
	l := &limiter{
		nombre:  nombre,
		limit:   limit,
		window:  window,
		mensaje: mensaje,
		entries: make(map[string]*ventana),
		now:     time.Now,
	}
	go l.purgeLoop()
	return l
}

// allow registers one hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (l *limiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.entries[ip]
	if !ok || now.After(v.windowEnd) {
		v = &ventana{windowEnd: now.Add(l.window)}
		l.entries[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.windowEnd
}

func (l *limiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(apierror.CodeTooManyRequests, l.mensaje))
			return
		}
		c.Next()
	}
}

func (l *limiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	purged := 0
	for ip, v := range l.entries {
		if now.After(v.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	return purged
}

func (l *limiter) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for range ticker.C {
		if n := l.purge(); n > 0 {
			log.Debug().Str("limiter", l.nombre).Int("purged", n).Msg("rate limiter entries purged")
		}
	}
}

// LoginRateLimiter limits login and registration attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimiter("login", 20, time.Minute, "Demasiados intentos. Intente en 1 minuto.").handler()
}

// RateLimiter is the general per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimiter("api", limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
