package dto

import (
	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/models"
)

type CreateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

type CreateTweetRequest struct {
	Content string `json:"content"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ToggleLikeRequest struct {
	ContentKind string `json:"content_kind"`
}

// ToggleResponse reports the resulting state of a toggle, never an error for
// the already-present / already-absent cases.
type ToggleResponse struct {
	Active bool `json:"active"`
}

// Page is the pager envelope: one consistent snapshot of total plus a slice.
type Page struct {
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Items interface{} `json:"items"`
}

// VideoResponse carries a video with its owner's display fields resolved.
type VideoResponse struct {
	ID            uuid.UUID `json:"id"`
	VideoFile     string    `json:"video_file"`
	Thumbnail     string    `json:"thumbnail"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Duration      float64   `json:"duration"`
	Views         int64     `json:"views"`
	IsPublished   bool      `json:"is_published"`
	OwnerID       uuid.UUID `json:"owner_id"`
	OwnerUsername string    `json:"owner_username"`
	OwnerAvatar   string    `json:"owner_avatar"`
	CreatedAt     string    `json:"created_at"`
}

func NewVideoResponse(v *models.Video, owner *models.User) VideoResponse {
	resp := VideoResponse{
		ID:          v.ID,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		OwnerID:     v.OwnerID,
		CreatedAt:   v.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if owner != nil {
		resp.OwnerUsername = owner.Username
		resp.OwnerAvatar = owner.Avatar
	}
	return resp
}

// ChannelProfile is the public channel page projection.
type ChannelProfile struct {
	UserResponse
	SubscriberCount int64 `json:"subscriber_count"`
	SubscribedTo    int64 `json:"subscribed_to"`
	IsSubscribed    bool  `json:"is_subscribed"`
}

// ChannelStats is the dashboard aggregate; values are eventually consistent
// with concurrent toggles.
type ChannelStats struct {
	TotalVideos      int64 `json:"total_videos"`
	TotalViews       int64 `json:"total_views"`
	TotalSubscribers int64 `json:"total_subscribers"`
	TotalLikes       int64 `json:"total_likes"`
}

type LikedContent struct {
	Kind    string      `json:"kind"`
	Content interface{} `json:"content"`
}
