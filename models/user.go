package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleMaster         = "MASTER"
	RoleAdministrativo = "ADMINISTRATIVO"
	RoleEscrevente     = "ESCREVENTE"
)

type User struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username    string     `gorm:"uniqueIndex;not null" json:"username"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"not null;default:ESCREVENTE" json:"role"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool       `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"is_superuser"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// BeforeSave derives the privilege flags from the role
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.IsStaff = true
	u.IsSuperuser = u.Role == RoleMaster
	return nil
}

// IsMaster reports whether the user holds full administrative privileges
func (u *User) IsMaster() bool {
	return u.Role == RoleMaster
}

// FullName returns first and last name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// RoleDisplayName returns the human-readable role label
func (u *User) RoleDisplayName() string {
	return RoleDisplayName(u.Role)
}

func RoleDisplayName(role string) string {
	switch role {
	case RoleMaster:
		return "Master"
	case RoleAdministrativo:
		return "Administrativo"
	case RoleEscrevente:
		return "Escrevente"
	}
	return role
}

// IsValidRole checks if the role is one of the known roles
func IsValidRole(role string) bool {
	return role == RoleMaster || role == RoleAdministrativo || role == RoleEscrevente
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
