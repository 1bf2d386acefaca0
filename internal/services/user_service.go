package services

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/media"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

// UserService handles profile updates, including avatar and cover image
// uploads through the blob service.
type UserService struct {
	db       *gorm.DB
	uploader media.Uploader
}

func NewUserService(db *gorm.DB, uploader media.Uploader) *UserService {
	return &UserService{db: db, uploader: uploader}
}

func (s *UserService) UpdateProfile(userID uuid.UUID, fullName string) (*dto.UserResponse, error) {
	if fullName == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "full name is required")
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Update("full_name", fullName).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to update profile")
	}
	return s.profile(userID)
}

// UpdateAvatar uploads the image and stores its public URL. The temp file is
// removed after the upload attempt no matter how it went.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (*dto.UserResponse, error) {
	return s.updateImage(ctx, userID, localPath, "avatar")
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (*dto.UserResponse, error) {
	return s.updateImage(ctx, userID, localPath, "cover_image")
}

func (s *UserService) updateImage(ctx context.Context, userID uuid.UUID, localPath, column string) (*dto.UserResponse, error) {
	result, uploadErr := s.uploader.Upload(ctx, localPath)
	os.Remove(localPath)
	if uploadErr != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to upload image")
	}

	err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, result.URL).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to store image url")
	}
	return s.profile(userID)
}

func (s *UserService) profile(userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	err := s.db.
		Select("id", "username", "email", "full_name", "avatar", "cover_image").
		First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "user not found")
	}
	resp := dto.NewUserResponse(&user)
	return &resp, nil
}
