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

// SubscriptionService is the two-party specialization of the toggle engine:
// the relationship key is (subscriber, channel) and both parties are users.
type SubscriptionService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{db: db, cfg: cfg}
}

// Toggle flips the subscription and returns the resulting state:
// true = subscribed, false = unsubscribed.
func (s *SubscriptionService) Toggle(subscriberID, channelID uuid.UUID) (bool, error) {
	if subscriberID == channelID && !s.cfg.AllowSelfSubscribe {
		return false, apperr.Wrap(apperr.ErrInvalidInput, "subscribing to your own channel is not allowed")
	}

	var channel models.User
	if err := s.db.Select("id").First(&channel, "id = ?", channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.Wrap(apperr.ErrNotFound, "channel not found")
		}
		return false, apperr.Wrap(apperr.ErrInternal, "failed to look up channel")
	}

	res := s.db.
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, apperr.Wrap(apperr.ErrInternal, "failed to toggle subscription")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	if err := s.db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, apperr.Wrap(apperr.ErrInternal, "failed to toggle subscription")
	}
	return true, nil
}

// Subscribers lists the users subscribed to a channel, display fields only.
func (s *SubscriptionService) Subscribers(channelID uuid.UUID, r PageRequest) (*dto.Page, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("channel_id = ?", channelID)
	}

	var subs []models.Subscription
	total, err := fetchPage(s.db, &models.Subscription{}, scope, "created_at DESC, id ASC", r, &subs)
	if err != nil {
		return nil, err
	}

	users, err := s.usersByID(collectIDs(subs, func(x models.Subscription) uuid.UUID { return x.SubscriberID }))
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(subs))
	for _, sub := range subs {
		if u, ok := users[sub.SubscriberID]; ok {
			items = append(items, dto.NewUserResponse(&u))
		}
	}

	r.normalize()
	return &dto.Page{Total: total, Page: r.Page, Limit: r.Limit, Items: items}, nil
}

// SubscribedChannels lists the channels a user has subscribed to.
func (s *SubscriptionService) SubscribedChannels(subscriberID uuid.UUID, r PageRequest) (*dto.Page, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("subscriber_id = ?", subscriberID)
	}

	var subs []models.Subscription
	total, err := fetchPage(s.db, &models.Subscription{}, scope, "created_at DESC, id ASC", r, &subs)
	if err != nil {
		return nil, err
	}

	users, err := s.usersByID(collectIDs(subs, func(x models.Subscription) uuid.UUID { return x.ChannelID }))
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(subs))
	for _, sub := range subs {
		if u, ok := users[sub.ChannelID]; ok {
			items = append(items, dto.NewUserResponse(&u))
		}
	}

	r.normalize()
	return &dto.Page{Total: total, Page: r.Page, Limit: r.Limit, Items: items}, nil
}

// ChannelProfile resolves a channel by username with subscription counts and
// whether the viewer is subscribed. viewerID may be uuid.Nil for anonymous
// viewers.
func (s *SubscriptionService) ChannelProfile(username string, viewerID uuid.UUID) (*dto.ChannelProfile, error) {
	var user models.User
	err := s.db.
		Select("id", "username", "email", "full_name", "avatar", "cover_image").
		First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "channel not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to look up channel")
	}

	profile := dto.ChannelProfile{UserResponse: dto.NewUserResponse(&user)}

	if err := s.db.Model(&models.Subscription{}).Where("channel_id = ?", user.ID).Count(&profile.SubscriberCount).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to count subscribers")
	}
	if err := s.db.Model(&models.Subscription{}).Where("subscriber_id = ?", user.ID).Count(&profile.SubscribedTo).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to count subscriptions")
	}

	if viewerID != uuid.Nil {
		var n int64
		if err := s.db.Model(&models.Subscription{}).
			Where("subscriber_id = ? AND channel_id = ?", viewerID, user.ID).
			Count(&n).Error; err != nil {
			return nil, apperr.Wrap(apperr.ErrInternal, "failed to check subscription")
		}
		profile.IsSubscribed = n > 0
	}

	return &profile, nil
}

func (s *SubscriptionService) usersByID(ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	err := s.db.
		Select("id", "username", "email", "full_name", "avatar", "cover_image").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to resolve users")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func collectIDs[T any](items []T, pick func(T) uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, pick(item))
	}
	return ids
}
