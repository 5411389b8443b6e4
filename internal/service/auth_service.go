package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gymdesk/internal/auth"
	"gymdesk/internal/config"
	"gymdesk/internal/dto"
	"gymdesk/internal/gymerr"
	"gymdesk/internal/model"
	"gymdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the work factor of stored credentials.
var BcryptCost = 12

// HashPassword returns the bcrypt hash stored as credential material.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type AuthService interface {
	// Authenticate verifies credentials and returns the caller identity.
	Authenticate(ctx context.Context, username, password string) (auth.Identidad, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// EmitirSesion re-issues tokens from the stored account, so a role
	// change is reflected immediately.
	EmitirSesion(ctx context.Context, usuarioID uuid.UUID) (*dto.LoginResponse, error)

	ListarUsuarios(ctx context.Context, filtro dto.FiltroEstado) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error

	// AsegurarSuperUsuario creates a SuperUser account when none exists.
	AsegurarSuperUsuario(ctx context.Context, username, email, password string) (bool, error)
}

type authService struct {
	repo       repository.UsuarioRepository
	sucursales repository.SucursalRepository
	jwt        *auth.JWTService
	cfg        *config.Config
	now        func() time.Time
}

func NewAuthService(repo repository.UsuarioRepository, sucursales repository.SucursalRepository, jwtSvc *auth.JWTService, cfg *config.Config) AuthService {
	return &authService{repo: repo, sucursales: sucursales, jwt: jwtSvc, cfg: cfg, now: time.Now}
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (auth.Identidad, error) {
	user, err := s.verificar(ctx, username, password)
	if err != nil {
		return auth.Identidad{}, err
	}
	return auth.IdentidadDe(user), nil
}

func (s *authService) verificar(ctx context.Context, username, password string) (*model.Usuario, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gymerr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Activo {
		return nil, gymerr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, gymerr.ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.verificar(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.RegistrarAcceso(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("usuario_id", user.ID.String()).Msg("no se pudo registrar el último acceso")
	} else {
		user.UltimoAcceso = &now
	}
	return s.sesion(user)
}

func (s *authService) Registrar(ctx context.Context, req dto.RegistroRequest) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	// Self-service sign-up never offers reactivation: any clash is an error.
	_, err := s.repo.FindConflicto(ctx, username, email, nil)
	if err := verificarEdicion("una cuenta", "username", err); err != nil {
		return nil, err
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     username,
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Email:        email,
		PasswordHash: hash,
		Rol:          model.RolDefault,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, gymerr.NewValidation("username", "ya existe una cuenta con ese valor")
		}
		return nil, err
	}
	log.Info().Str("username", user.Username).Msg("cuenta registrada")
	return s.sesion(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims, err := s.jwt.ValidateToken(refreshToken, auth.TokenRefresco)
	if err != nil {
		return nil, gymerr.ErrInvalidCredentials
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil || !user.Activo {
		return nil, gymerr.ErrInvalidCredentials
	}
	return s.sesion(user)
}

func (s *authService) EmitirSesion(ctx context.Context, usuarioID uuid.UUID) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		return nil, noEncontrado(err)
	}
	return s.sesion(user)
}

func (s *authService) sesion(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.jwt.GenerateToken(user, auth.TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.GenerateToken(user, auth.TokenRefresco, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         mapUsuario(user),
	}, nil
}

// ── Account administration ────────────────────────────────────────────────────

func (s *authService) ListarUsuarios(ctx context.Context, filtro dto.FiltroEstado) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = mapUsuario(&users[i])
	}
	return resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err)
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	rol, err := model.ParseRol(req.Rol)
	if err != nil {
		return nil, gymerr.NewValidation("rol", err.Error())
	}
	if err := s.verificarSucursal(ctx, req.SucursalID); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	existente, err := s.repo.FindConflicto(ctx, username, email, nil)
	var reg model.Registro
	if err == nil {
		reg = *existente
	}
	if err := verificarAlta("una cuenta", "username", reg, err); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Username:     username,
		Nombre:       req.Nombre,
		Apellido:     req.Apellido,
		Email:        email,
		PasswordHash: hash,
		Rol:          rol,
		SucursalID:   req.SucursalID,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := mapUsuario(user)
	return &resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uuid.UUID, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, noEncontrado(err)
	}
	rol, err := model.ParseRol(req.Rol)
	if err != nil {
		return nil, gymerr.NewValidation("rol", err.Error())
	}
	if err := s.verificarSucursal(ctx, req.SucursalID); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	_, err = s.repo.FindConflicto(ctx, username, email, &id)
	if err := verificarEdicion("una cuenta", "username", err); err != nil {
		return nil, err
	}

	campos := map[string]any{
		"username":    username,
		"nombre":      req.Nombre,
		"apellido":    req.Apellido,
		"email":       email,
		"rol":         rol,
		"sucursal_id": req.SucursalID,
	}
	if req.Password != "" {
		hash, err := HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		campos["password_hash"] = hash
	}
	if err := s.repo.Update(ctx, id, req.Version, campos); err != nil {
		return nil, err
	}
	return s.ObtenerUsuario(ctx, id)
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *authService) AsegurarSuperUsuario(ctx context.Context, username, email, password string) (bool, error) {
	existe, err := s.repo.ExisteRol(ctx, model.RolSuperUser)
	if err != nil || existe {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	user := &model.Usuario{
		Username:     username,
		Nombre:       "Super",
		Apellido:     "Usuario",
		Email:        email,
		PasswordHash: hash,
		Rol:          model.RolSuperUser,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return false, err
	}
	log.Info().Str("username", username).Msg("superusuario creado")
	return true, nil
}

func (s *authService) verificarSucursal(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.sucursales.FindByID(ctx, *id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return gymerr.NewValidation("sucursal_id", "la sucursal no existe")
		}
		return err
	}
	return nil
}

func mapUsuario(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:           u.ID,
		Username:     u.Username,
		Nombre:       u.Nombre,
		Apellido:     u.Apellido,
		Email:        u.Email,
		Rol:          u.Rol.String(),
		SucursalID:   u.SucursalID,
		Activo:       u.Activo,
		UltimoAcceso: u.UltimoAcceso,
		Version:      u.Version,
	}
}
