package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/config"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

// LikeService is the generic toggle engine over (user, content, kind)
// triples. The flip is delete-first: a delete that removes a row means the
// relationship was active and is now inactive; otherwise an insert is
// attempted and a duplicate-key violation from a concurrent insert is
// reported as "already active", not as an error. Exactly one row per triple
// can ever exist thanks to the composite unique index.
type LikeService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewLikeService(db *gorm.DB, cfg *config.Config) *LikeService {
	return &LikeService{db: db, cfg: cfg}
}

// Toggle flips the like relationship and returns the resulting state:
// true = active (liked), false = inactive.
func (s *LikeService) Toggle(userID, contentID uuid.UUID, kind models.ContentKind) (bool, error) {
	if !kind.Valid() {
		return false, apperr.Wrap(apperr.ErrInvalidInput, "invalid content kind")
	}

	ownerID, err := s.contentOwner(contentID, kind)
	if err != nil {
		return false, err
	}
	if ownerID == userID && !s.cfg.AllowSelfLike {
		return false, apperr.Wrap(apperr.ErrInvalidInput, "liking your own content is not allowed")
	}

	res := s.db.
		Where("user_id = ? AND content_id = ? AND content_kind = ?", userID, contentID, kind).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, apperr.Wrap(apperr.ErrInternal, "failed to toggle like")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.Like{UserID: userID, ContentID: contentID, ContentKind: kind}
	if err := s.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent toggle won the insert; the relationship is active
			// either way.
			return true, nil
		}
		return false, apperr.Wrap(apperr.ErrInternal, "failed to toggle like")
	}
	return true, nil
}

// IsLiked reports whether the triple currently exists.
func (s *LikeService) IsLiked(userID, contentID uuid.UUID, kind models.ContentKind) (bool, error) {
	var count int64
	err := s.db.Model(&models.Like{}).
		Where("user_id = ? AND content_id = ? AND content_kind = ?", userID, contentID, kind).
		Count(&count).Error
	if err != nil {
		return false, apperr.Wrap(apperr.ErrInternal, "failed to check like")
	}
	return count > 0, nil
}

// ListLiked returns the current user's liked content with each target
// resolved through its own kind handler.
func (s *LikeService) ListLiked(userID uuid.UUID) ([]dto.LikedContent, error) {
	var likes []models.Like
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to list liked content")
	}

	out := make([]dto.LikedContent, 0, len(likes))
	for _, like := range likes {
		content, err := s.resolveContent(like.ContentID, like.ContentKind)
		if err != nil {
			// Target deleted since the like was created; skip it.
			continue
		}
		out = append(out, dto.LikedContent{Kind: string(like.ContentKind), Content: content})
	}
	return out, nil
}

// contentOwner checks the target exists and returns its owner. One branch per
// kind: the kind set is closed, so dispatch is a compile-time switch.
func (s *LikeService) contentOwner(contentID uuid.UUID, kind models.ContentKind) (uuid.UUID, error) {
	var ownerID uuid.UUID
	var err error

	switch kind {
	case models.KindVideo:
		var v models.Video
		err = s.db.Select("id", "owner_id").First(&v, "id = ?", contentID).Error
		ownerID = v.OwnerID
	case models.KindTweet:
		var t models.Tweet
		err = s.db.Select("id", "owner_id").First(&t, "id = ?", contentID).Error
		ownerID = t.OwnerID
	case models.KindComment:
		var cm models.Comment
		err = s.db.Select("id", "owner_id").First(&cm, "id = ?", contentID).Error
		ownerID = cm.OwnerID
	default:
		return uuid.Nil, apperr.Wrap(apperr.ErrInvalidInput, "invalid content kind")
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperr.Wrap(apperr.ErrNotFound, "content not found")
		}
		return uuid.Nil, apperr.Wrap(apperr.ErrInternal, "failed to look up content")
	}
	return ownerID, nil
}

func (s *LikeService) resolveContent(contentID uuid.UUID, kind models.ContentKind) (interface{}, error) {
	switch kind {
	case models.KindVideo:
		var v models.Video
		if err := s.db.First(&v, "id = ?", contentID).Error; err != nil {
			return nil, err
		}
		return v, nil
	case models.KindTweet:
		var t models.Tweet
		if err := s.db.First(&t, "id = ?", contentID).Error; err != nil {
			return nil, err
		}
		return t, nil
	case models.KindComment:
		var cm models.Comment
		if err := s.db.First(&cm, "id = ?", contentID).Error; err != nil {
			return nil, err
		}
		return cm, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// CountForOwner sums likes received across all content a user owns. The sum
// is eventually consistent with concurrent toggles.
func (s *LikeService) CountForOwner(ownerID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.Model(&models.Like{}).
		Where(`(content_kind = ? AND content_id IN (SELECT id FROM videos WHERE owner_id = ?))
			OR (content_kind = ? AND content_id IN (SELECT id FROM tweets WHERE owner_id = ?))
			OR (content_kind = ? AND content_id IN (SELECT id FROM comments WHERE owner_id = ?))`,
			models.KindVideo, ownerID, models.KindTweet, ownerID, models.KindComment, ownerID).
		Count(&total).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrInternal, "failed to count likes")
	}
	return total, nil
}
