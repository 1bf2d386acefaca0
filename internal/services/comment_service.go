package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

func (s *CommentService) Create(ownerID, videoID uuid.UUID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "comment content is required")
	}

	var video models.Video
	if err := s.db.Select("id").First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "video not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to look up video")
	}

	comment := models.Comment{OwnerID: ownerID, VideoID: videoID, Content: content}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to create comment")
	}
	return &comment, nil
}

func (s *CommentService) ListByVideo(videoID uuid.UUID, r PageRequest) (*dto.Page, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("video_id = ?", videoID)
	}

	var comments []models.Comment
	total, err := fetchPage(s.db, &models.Comment{}, scope, "created_at DESC, id ASC", r, &comments)
	if err != nil {
		return nil, err
	}

	r.normalize()
	return &dto.Page{Total: total, Page: r.Page, Limit: r.Limit, Items: comments}, nil
}

func (s *CommentService) Update(commentID, actorID uuid.UUID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "comment content is required")
	}

	comment, err := s.ownedComment(commentID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(comment).Update("content", content).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to update comment")
	}
	return comment, nil
}

func (s *CommentService) Delete(commentID, actorID uuid.UUID) error {
	comment, err := s.ownedComment(commentID, actorID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(comment).Error; err != nil {
		return apperr.Wrap(apperr.ErrInternal, "failed to delete comment")
	}
	return nil
}

func (s *CommentService) ownedComment(commentID, actorID uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "comment not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load comment")
	}
	if comment.OwnerID != actorID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "only the owner can modify this comment")
	}
	return &comment, nil
}
