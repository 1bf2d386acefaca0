package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Playlist struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Owner       User           `gorm:"foreignKey:OwnerID" json:"-"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlaylistVideo is one ordered membership entry. The unique index keeps a
// video from appearing twice in the same playlist; Position preserves
// insertion order.
type PlaylistVideo struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlaylistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_videos_pair,priority:1;index" json:"playlist_id"`
	VideoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_videos_pair,priority:2" json:"video_id"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

func (pv *PlaylistVideo) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == uuid.Nil {
		pv.ID = uuid.New()
	}
	return nil
}
