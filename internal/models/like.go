package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentKind is the closed set of likeable content types.
type ContentKind string

const (
	KindVideo   ContentKind = "video"
	KindTweet   ContentKind = "tweet"
	KindComment ContentKind = "comment"
)

func (k ContentKind) Valid() bool {
	switch k {
	case KindVideo, KindTweet, KindComment:
		return true
	}
	return false
}

// Like records that a user liked one piece of content. The composite unique
// index is the correctness anchor for the toggle engine: a duplicate create
// fails at the database instead of silently double-liking.
type Like struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_content,priority:1" json:"user_id"`
	ContentID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_content,priority:2" json:"content_id"`
	ContentKind ContentKind `gorm:"size:10;not null;uniqueIndex:idx_likes_user_content,priority:3" json:"content_kind"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
