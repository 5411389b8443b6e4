package middleware

import (
	"errors"
	"net/http"
	"strings"

	"gymdesk/internal/apierror"
	"gymdesk/internal/auth"
	"gymdesk/internal/model"

	"github.com/gin-gonic/gin"
)

const IdentidadKey = "identidad"

// JWTAuth validates the Bearer access token on every protected route and
// stores the caller identity in the context.
func JWTAuth(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		claims, err := jwtSvc.ValidateToken(strings.TrimPrefix(header, "Bearer "), auth.TokenAcceso)
		if err != nil {
			msg := "Token invalido"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New(msg))
			return
		}
		id, err := claims.Identidad()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido"))
			return
		}

		c.Set(IdentidadKey, id)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed list.
// Must run after JWTAuth.
func RequireRole(roles ...model.Rol) gin.HandlerFunc {
	allowed := make(map[model.Rol]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		id, ok := Identidad(c)
		if !ok || !allowed[id.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// Identidad returns the caller set by JWTAuth.
func Identidad(c *gin.Context) (auth.Identidad, bool) {
	v, exists := c.Get(IdentidadKey)
	if !exists {
		return auth.Identidad{}, false
	}
	id, ok := v.(auth.Identidad)
	return id, ok
}
