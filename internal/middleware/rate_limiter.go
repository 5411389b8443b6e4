package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"gymdesk/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana counts the requests of one IP inside a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
}

// limitador is a per-IP window counter. Expired IPs are purged inline every
// purgeInterval instead of by a background goroutine.
type limitador struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	ips       map[string]*ventana
	lastPurge time.Time
	now       func() time.Time
}

func newLimitador(limit int, window time.Duration) *limitador {
	return &limitador{limit: limit, window: window, ips: make(map[string]*ventana), now: time.Now}
}

// permitir counts one request and reports whether it is within the limit,
// plus when the current window ends.
func (l *limitador) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) > purgeInterval {
		l.purgar(now)
	}
	v, ok := l.ips[ip]
	if !ok || now.After(v.windowEnd) {
		v = &ventana{windowEnd: now.Add(l.window)}
		l.ips[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.windowEnd
}

func (l *limitador) purgar(now time.Time) {
	purged := 0
	for ip, v := range l.ips {
		if now.After(v.windowEnd) {
			delete(l.ips, ip)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.ips)).Msg("rate limiter purged")
	}
}

func (l *limitador) handler(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.permitir(c.ClientIP())
		if !ok {
			secs := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newLimitador(20, time.Minute).handler("Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter limits every IP to limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newLimitador(limit, window).handler("Demasiadas solicitudes. Intente nuevamente en un momento.")
}
