package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"gorm.io/gorm"
)

// PlaylistService manages playlists and their ordered membership. Membership
// is the ordered-collection variant of the toggle engine: add appends at the
// tail, remove deletes, and the unique (playlist, video) index makes a
// duplicate add collapse into an idempotent success instead of a second row.
type PlaylistService struct {
	db *gorm.DB
}

func NewPlaylistService(db *gorm.DB) *PlaylistService {
	return &PlaylistService{db: db}
}

func (s *PlaylistService) Create(ownerID uuid.UUID, req *dto.CreatePlaylistRequest) (*models.Playlist, error) {
	if req.Name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "playlist name is required")
	}

	playlist := models.Playlist{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(&playlist).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to create playlist")
	}
	return &playlist, nil
}

// PlaylistDetail is a playlist with its videos in playlist order and the
// owner's display fields.
type PlaylistDetail struct {
	models.Playlist
	Videos []models.Video   `json:"videos"`
	Owner  dto.UserResponse `json:"owner"`
}

func (s *PlaylistService) Get(playlistID uuid.UUID) (*PlaylistDetail, error) {
	var playlist models.Playlist
	if err := s.db.First(&playlist, "id = ?", playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "playlist not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load playlist")
	}

	var owner models.User
	if err := s.db.
		Select("id", "username", "email", "full_name", "avatar", "cover_image").
		First(&owner, "id = ?", playlist.OwnerID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load playlist owner")
	}

	var entries []models.PlaylistVideo
	if err := s.db.
		Where("playlist_id = ?", playlistID).
		Order("position ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load playlist videos")
	}

	videos := make([]models.Video, 0, len(entries))
	if len(entries) > 0 {
		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.VideoID)
		}
		var found []models.Video
		if err := s.db.Where("id IN ?", ids).Find(&found).Error; err != nil {
			return nil, apperr.Wrap(apperr.ErrInternal, "failed to load playlist videos")
		}
		byID := make(map[uuid.UUID]models.Video, len(found))
		for _, v := range found {
			byID[v.ID] = v
		}
		for _, e := range entries {
			if v, ok := byID[e.VideoID]; ok {
				videos = append(videos, v)
			}
		}
	}

	return &PlaylistDetail{
		Playlist: playlist,
		Videos:   videos,
		Owner:    dto.NewUserResponse(&owner),
	}, nil
}

func (s *PlaylistService) ListByOwner(ownerID uuid.UUID) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := s.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id ASC").
		Find(&playlists).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to list playlists")
	}
	return playlists, nil
}

func (s *PlaylistService) Update(playlistID, actorID uuid.UUID, req *dto.UpdatePlaylistRequest) (*models.Playlist, error) {
	if req.Name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidInput, "playlist name is required")
	}

	playlist, err := s.ownedPlaylist(playlistID, actorID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"name": req.Name, "description": req.Description}
	if err := s.db.Model(playlist).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to update playlist")
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(playlistID, actorID uuid.UUID) error {
	playlist, err := s.ownedPlaylist(playlistID, actorID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "failed to delete playlist")
	}
	return nil
}

// AddVideo appends a video at the playlist tail. Adding a video that is
// already present is an idempotent success.
func (s *PlaylistService) AddVideo(playlistID, videoID, actorID uuid.UUID) error {
	if _, err := s.ownedPlaylist(playlistID, actorID); err != nil {
		return err
	}

	var video models.Video
	if err := s.db.Select("id").First(&video, "id = ?", videoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Wrap(apperr.ErrNotFound, "video not found")
		}
		return apperr.Wrap(apperr.ErrInternal, "failed to look up video")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var next int
		row := tx.Model(&models.PlaylistVideo{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0) + 1")
		if err := row.Scan(&next).Error; err != nil {
			return err
		}
		entry := models.PlaylistVideo{
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   next,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return apperr.Wrap(apperr.ErrInternal, "failed to add video to playlist")
	}
	return nil
}

// RemoveVideo deletes a membership entry. Removing a video that is not in
// the playlist is an idempotent success.
func (s *PlaylistService) RemoveVideo(playlistID, videoID, actorID uuid.UUID) error {
	if _, err := s.ownedPlaylist(playlistID, actorID); err != nil {
		return err
	}

	err := s.db.
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{}).Error
	if err != nil {
		return apperr.Wrap(apperr.ErrInternal, "failed to remove video from playlist")
	}
	return nil
}

func (s *PlaylistService) ownedPlaylist(playlistID, actorID uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.db.First(&playlist, "id = ?", playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "playlist not found")
		}
		return nil, apperr.Wrap(apperr.ErrInternal, "failed to load playlist")
	}
	if playlist.OwnerID != actorID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "only the owner can modify this playlist")
	}
	return &playlist, nil
}
