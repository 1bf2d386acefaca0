package services

import (
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

// DashboardService aggregates per-channel stats. The numbers are computed by
// summing rows and are eventually consistent with concurrent toggles and
// view bumps; they are not a transactional snapshot.
type DashboardService struct {
	db    *gorm.DB
	likes *LikeService
}

func NewDashboardService(db *gorm.DB, likes *LikeService) *DashboardService {
	return &DashboardService{db: db, likes: likes}
}

func (s *DashboardService) ChannelStats(channelID uuid.UUID) (*dto.ChannelStats, error) {
	var stats dto.ChannelStats

	err := s.db.Model(&models.Video{}).
		Where("owner_id = ?", channelID).
		Count(&stats.TotalVideos).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to count videos")
	}

	var views *int64
	err = s.db.Model(&models.Video{}).
		Where("owner_id = ?", channelID).
		Select("SUM(views)").
		Scan(&views).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to sum views")
	}
	if views != nil {
		stats.TotalViews = *views
	}

	err = s.db.Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&stats.TotalSubscribers).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to count subscribers")
	}

	likes, err := s.likes.CountForOwner(channelID)
	if err != nil {
		return nil, err
	}
	stats.TotalLikes = likes

	return &stats, nil
}
