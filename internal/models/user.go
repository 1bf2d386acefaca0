package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is both an account and a channel. RefreshToken holds the single
// currently-valid refresh token: issuing a new pair overwrites it, so at most
// one session per user can refresh (last login wins).
//
// VideoIDs is a denormalized cache of owned video ids kept alongside the
// videos table; it is advisory and rebuildable, never authoritative.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	FullName     string         `gorm:"size:100" json:"full_name"`
	Avatar       string         `gorm:"size:500" json:"avatar"`
	CoverImage   string         `gorm:"size:500" json:"cover_image"`
	Password     string         `gorm:"not null" json:"-"`
	RefreshToken *string        `gorm:"size:512" json:"-"`
	VideoIDs     datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
