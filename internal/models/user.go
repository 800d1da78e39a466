// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an authentication identity in the Quill application.
// Content ownership is expressed through the paired Profile, never the
// User directly.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool      `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool      `gorm:"not null;default:false" json:"is_superuser"`
	IsVerified  bool      `gorm:"not null;default:false" json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Profile is the author-facing identity paired 1:1 with a User. It is
// created in the same transaction as its User and never independently.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the profile's full name, falling back to the owning
// user's email until names are set.
func (p *Profile) DisplayName() string {
	if p.FirstName == "" && p.LastName == "" {
		return p.User.Email
	}
	if p.LastName == "" {
		return p.FirstName
	}
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// UsedToken records a consumed token identifier so a previously issued
// token cannot be replayed. TokenJTI is globally unique, not per-user.
type UsedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TokenJTI  string    `gorm:"size:128;uniqueIndex;not null" json:"token_jti"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (UsedToken) TableName() string {
	return "used_tokens"
}
