package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Usuario is a login account. The role changes from default to member
// exactly once, when the account buys its first membership.
type Usuario struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username     string     `gorm:"uniqueIndex;size:150;not null"`
	Nombre       string     `gorm:"not null"`
	Apellido     string     `gorm:"not null;default:''"`
	Email        string     `gorm:"size:150;not null;index"`
	PasswordHash string     `gorm:"not null"`
	Rol          Rol        `gorm:"type:varchar(20);not null"`
	SucursalID   *uuid.UUID `gorm:"type:uuid;index"`
	Activo       bool       `gorm:"not null;default:true"`
	UltimoAcceso *time.Time
	Version      int `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Sucursal *Sucursal `gorm:"foreignKey:SucursalID"`
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) BeforeCreate(*gorm.DB) error {
	asignarID(&u.ID, &u.Version)
	return nil
}
