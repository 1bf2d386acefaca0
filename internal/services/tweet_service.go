package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

type TweetService struct {
	db *gorm.DB
}

func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{db: db}
}

func (s *TweetService) Create(ownerID uuid.UUID, content string) (*models.Tweet, error) {
	if content == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "tweet content is required")
	}
	if len(content) > 280 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "tweet must be under 280 characters")
	}

	tweet := models.Tweet{OwnerID: ownerID, Content: content}
	if err := s.db.Create(&tweet).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to create tweet")
	}
	return &tweet, nil
}

func (s *TweetService) ListByOwner(ownerID uuid.UUID, r PageRequest) (*dto.Page, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("owner_id = ?", ownerID)
	}

	var tweets []models.Tweet
	total, err := fetchPage(s.db, &models.Tweet{}, scope, "created_at DESC, id ASC", r, &tweets)
	if err != nil {
		return nil, err
	}

	r.normalize()
	return &dto.Page{Total: total, Page: r.Page, Limit: r.Limit, Items: tweets}, nil
}

func (s *TweetService) Update(tweetID, actorID uuid.UUID, content string) (*models.Tweet, error) {
	if content == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "tweet content is required")
	}

	tweet, err := s.ownedTweet(tweetID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(tweet).Update("content", content).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to update tweet")
	}
	return tweet, nil
}

func (s *TweetService) Delete(tweetID, actorID uuid.UUID) error {
	tweet, err := s.ownedTweet(tweetID, actorID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(tweet).Error; err != nil {
		return apperr.Wrap(apperr.ErrInternal, "failed to delete tweet")
	}
	return nil
}

func (s *TweetService) ownedTweet(tweetID, actorID uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := s.db.First(&tweet, "id = ?", tweetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "tweet not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load tweet")
	}
	if tweet.OwnerID != actorID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "only the owner can modify this tweet")
	}
	return &tweet, nil
}
