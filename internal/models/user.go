package models

import "time"

type UserRole string

const (
	RoleUser           UserRole = "User"
	RoleIT             UserRole = "IT User"
	RoleInfrastructure UserRole = "Infrastructure User"
	RoleAdministrator  UserRole = "Administrator User"
)

// Roles is the fixed role set accepted at registration.
var Roles = []UserRole{RoleUser, RoleIT, RoleInfrastructure, RoleAdministrator}

func (r UserRole) Valid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID int    `gorm:"not null;default:0" json:"tenant_id"`
	Username string `gorm:"size:100;not null;index" json:"username"`
	Email    string `gorm:"size:255;not null" json:"email"`
	// Password holds a bcrypt hash; rows imported before hashing keep plaintext.
	Password string `gorm:"not null" json:"-"`
	// LegacyRole is the pre-user_role column, still read at login.
	LegacyRole *string   `gorm:"column:role;size:50" json:"-"`
	UserRole   UserRole  `gorm:"column:user_role;size:50" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
