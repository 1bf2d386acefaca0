package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/media"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var videoSortColumns = map[string]bool{
	"created_at": true,
	"views":      true,
	"title":      true,
	"duration":   true,
}

type VideoService struct {
	db       *gorm.DB
	uploader media.Uploader
}

func NewVideoService(db *gorm.DB, uploader media.Uploader) *VideoService {
	return &VideoService{db: db, uploader: uploader}
}

// Publish uploads the local file to the blob service, then writes the video
// row and the owner's denormalized video-id cache in one transaction. The
// temp file is removed after the upload attempt no matter how it went. The
// cache is advisory: if it drifts it can be rebuilt from the videos table.
func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, localPath string, req *dto.CreateVideoRequest) (*models.Video, error) {
	if req.Title == "" || req.Description == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "title and description are required")
	}

	result, uploadErr := s.uploader.Upload(ctx, localPath)
	os.Remove(localPath)
	if uploadErr != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to upload video file")
	}

	video := models.Video{
		OwnerID:     ownerID,
		VideoFile:   result.URL,
		Thumbnail:   req.Thumbnail,
		Title:       req.Title,
		Description: req.Description,
		Duration:    result.Duration,
		IsPublished: true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&video).Error; err != nil {
			return err
		}
		return appendOwnedVideo(tx, ownerID, video.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to publish video")
	}
	return &video, nil
}

// List returns a page of published videos with owner display fields
// resolved. ownerID and query are optional filters.
func (s *VideoService) List(ownerID uuid.UUID, query string, r PageRequest) (*dto.Page, error) {
	order, err := r.orderClause(videoSortColumns, "created_at")
	if err != nil {
		return nil, err
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("is_published = ?", true)
		if ownerID != uuid.Nil {
			tx = tx.Where("owner_id = ?", ownerID)
		}
		if query != "" {
			tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(query)+"%")
		}
		return tx
	}

	var videos []models.Video
	total, err := fetchPage(s.db, &models.Video{}, scope, order, r, &videos)
	if err != nil {
		return nil, err
	}

	owners, err := s.ownersByID(videos)
	if err != nil {
		return nil, err
	}

	items := make([]dto.VideoResponse, 0, len(videos))
	for i := range videos {
		owner := owners[videos[i].OwnerID]
		items = append(items, dto.NewVideoResponse(&videos[i], &owner))
	}

	r.normalize()
	return &dto.Page{Total: total, Page: r.Page, Limit: r.Limit, Items: items}, nil
}

// Get returns one video with its owner resolved and bumps the view counter.
// The bump is a single atomic update; the returned count may trail
// concurrent bumps.
func (s *VideoService) Get(videoID uuid.UUID) (*dto.VideoResponse, error) {
	res := s.db.Model(&models.Video{}).
		Where("id = ?", videoID).
		Update("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load video")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Wrap(apperr.ErrNotFound, "video not found")
	}

	var video models.Video
	if err := s.db.First(&video, "id = ?", videoID).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load video")
	}

	var owner models.User
	if err := s.db.
		Select("id", "username", "email", "full_name", "avatar", "cover_image").
		First(&owner, "id = ?", video.OwnerID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load video owner")
	}

	resp := dto.NewVideoResponse(&video, &owner)
	return &resp, nil
}

func (s *VideoService) Update(videoID, actorID uuid.UUID, req *dto.UpdateVideoRequest) (*models.Video, error) {
	video, err := s.ownedVideo(videoID, actorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Thumbnail != "" {
		updates["thumbnail"] = req.Thumbnail
	}
	if len(updates) == 0 {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "nothing to update")
	}

	if err := s.db.Model(video).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to update video")
	}
	return video, nil
}

func (s *VideoService) Delete(videoID, actorID uuid.UUID) error {
	video, err := s.ownedVideo(videoID, actorID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(video).Error; err != nil {
			return err
		}
		return removeOwnedVideo(tx, video.OwnerID, video.ID)
	})
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "failed to delete video")
	}
	return nil
}

// TogglePublish flips the publish flag; owner only.
func (s *VideoService) TogglePublish(videoID, actorID uuid.UUID) (*models.Video, error) {
	video, err := s.ownedVideo(videoID, actorID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.db.Model(video).Update("is_published", video.IsPublished).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to update publish status")
	}
	return video, nil
}

func (s *VideoService) ownedVideo(videoID, actorID uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := s.db.First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "video not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load video")
	}
	if video.OwnerID != actorID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "only the owner can modify this video")
	}
	return &video, nil
}

func (s *VideoService) ownersByID(videos []models.Video) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User)
	if len(videos) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.OwnerID)
	}
	var users []models.User
	err := s.db.
		Select("id", "username", "email", "full_name", "avatar", "cover_image").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to resolve owners")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// appendOwnedVideo and removeOwnedVideo maintain the advisory video-id cache
// on the user row.

func appendOwnedVideo(tx *gorm.DB, ownerID, videoID uuid.UUID) error {
	ids, err := ownedVideoIDs(tx, ownerID)
	if err != nil {
		return err
	}
	ids = append(ids, videoID)
	return saveOwnedVideoIDs(tx, ownerID, ids)
}

func removeOwnedVideo(tx *gorm.DB, ownerID, videoID uuid.UUID) error {
	ids, err := ownedVideoIDs(tx, ownerID)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != videoID {
			kept = append(kept, id)
		}
	}
	return saveOwnedVideoIDs(tx, ownerID, kept)
}

func ownedVideoIDs(tx *gorm.DB, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var user models.User
	if err := tx.Select("id", "video_ids").First(&user, "id = ?", ownerID).Error; err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if len(user.VideoIDs) > 0 {
		if err := json.Unmarshal(user.VideoIDs, &ids); err != nil {
			// Corrupt cache; treat as empty, it will be rewritten.
			ids = nil
		}
	}
	return ids, nil
}

func saveOwnedVideoIDs(tx *gorm.DB, ownerID uuid.UUID, ids []uuid.UUID) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return tx.Model(&models.User{}).
		Where("id = ?", ownerID).
		Update("video_ids", datatypes.JSON(raw)).Error
}
