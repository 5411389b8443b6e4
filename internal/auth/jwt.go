// Package auth issues and verifies session tokens and turns verified claims
// into the typed caller identity the services work with.
package auth

import (
	"errors"
	"fmt"
	"time"

	"gymdesk/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token invalido")
	ErrExpiredToken = errors.New("token expirado")
)

const (
	TokenAcceso   = "access"
	TokenRefresco = "refresh"
)

// Identidad is the verified caller of a workflow.
type Identidad struct {
	UsuarioID  uuid.UUID
	Username   string
	Rol        model.Rol
	SucursalID *uuid.UUID
}

// AlcanceSucursal returns the branch a caller is confined to, or nil when
// the caller may act on any branch. Only the SuperUser is never confined.
func (i Identidad) AlcanceSucursal() *uuid.UUID {
	if i.Rol == model.RolSuperUser {
		return nil
	}
	return i.SucursalID
}

// IdentidadDe builds the identity of an account loaded from the store.
func IdentidadDe(u *model.Usuario) Identidad {
	return Identidad{UsuarioID: u.ID, Username: u.Username, Rol: u.Rol, SucursalID: u.SucursalID}
}

type Claims struct {
	UserID     uuid.UUID  `json:"user_id"`
	Username   string     `json:"username"`
	Rol        string     `json:"rol"`
	SucursalID *uuid.UUID `json:"sucursal_id,omitempty"`
	Tipo       string     `json:"typ"`
	jwt.RegisteredClaims
}

// Identidad converts raw claims into a typed identity. Unknown roles are
// rejected here so nothing downstream ever sees a raw role string.
func (c *Claims) Identidad() (Identidad, error) {
	rol, err := model.ParseRol(c.Rol)
	if err != nil {
		return Identidad{}, ErrInvalidToken
	}
	return Identidad{UsuarioID: c.UserID, Username: c.Username, Rol: rol, SucursalID: c.SucursalID}, nil
}

type JWTService struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{secretKey: []byte(secretKey), issuer: issuer, now: time.Now}
}

// GenerateToken signs a token of the given kind for the account.
func (s *JWTService) GenerateToken(u *model.Usuario, tipo string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:     u.ID,
		Username:   u.Username,
		Rol:        string(u.Rol),
		SucursalID: u.SucursalID,
		Tipo:       tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   u.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken verifies signature, expiry and kind, and returns the claims.
func (s *JWTService) ValidateToken(tokenString, tipo string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Tipo != tipo {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
