package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/media"
	"github.com/phibrew/vidstream-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (*media.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &media.UploadResult{URL: f.url, Duration: 42.5}, nil
}

func tempUpload(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video bytes"), 0o600))
	return path
}

func TestPublish(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{url: "https://cdn.example.com/v.mp4"})

	owner := seedUser(t, db, "owner")
	path := tempUpload(t)

	video, err := svc.Publish(context.Background(), owner.ID, path, &dto.CreateVideoRequest{
		Title:       "launch",
		Description: "first upload",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/v.mp4", video.VideoFile)
	assert.Equal(t, 42.5, video.Duration)
	assert.True(t, video.IsPublished)

	// The temp file is gone after a successful publish.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// The owner's denormalized video-id cache was updated in the same
	// transaction.
	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", owner.ID).Error)
	var ids []uuid.UUID
	require.NoError(t, json.Unmarshal(stored.VideoIDs, &ids))
	assert.Equal(t, []uuid.UUID{video.ID}, ids)
}

func TestPublishUploadFailure(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{err: errors.New("blob service down")})

	owner := seedUser(t, db, "owner")
	path := tempUpload(t)

	_, err := svc.Publish(context.Background(), owner.ID, path, &dto.CreateVideoRequest{
		Title:       "doomed",
		Description: "never lands",
	})
	require.ErrorIs(t, err, apperr.ErrInternal)

	// The temp file is removed even when the upload fails, and no row was
	// written.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	var count int64
	require.NoError(t, db.Model(&models.Video{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPublishValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{url: "unused"})

	owner := seedUser(t, db, "owner")

	_, err := svc.Publish(context.Background(), owner.ID, "nonexistent", &dto.CreateVideoRequest{Title: "no desc"})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestGetIncrementsViews(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{})

	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, "watched")

	for i := 1; i <= 3; i++ {
		got, err := svc.Get(video.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.Views)
		assert.Equal(t, "owner", got.OwnerUsername)
	}

	_, err := svc.Get(uuid.New())
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListFiltersAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{})

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	seedVideo(t, db, alice.ID, "Go Tutorial")
	seedVideo(t, db, alice.ID, "Cooking Show")
	seedVideo(t, db, bob.ID, "Go Deep Dive")

	draft := seedVideo(t, db, bob.ID, "Go Draft")
	require.NoError(t, db.Model(draft).Update("is_published", false).Error)

	page, err := svc.List(uuid.Nil, "", PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total, "unpublished videos stay hidden")

	page, err = svc.List(alice.ID, "", PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	// Case-insensitive title search.
	page, err = svc.List(uuid.Nil, "gO", PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}

func TestListPagesAreDisjointAndComplete(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{})

	owner := seedUser(t, db, "owner")
	for i := 0; i < 25; i++ {
		v := seedVideo(t, db, owner.ID, fmt.Sprintf("video-%02d", i))
		require.NoError(t, db.Model(v).Update("views", i%7).Error)
	}

	// Paging through on a sort key with many ties must visit every video
	// exactly once.
	seen := make(map[uuid.UUID]bool)
	var total int64
	for page := 1; page <= 3; page++ {
		got, err := svc.List(uuid.Nil, "", PageRequest{Page: page, Limit: 10, SortBy: "views", SortDesc: true})
		require.NoError(t, err)
		total = got.Total

		items := got.Items.([]dto.VideoResponse)
		for _, item := range items {
			assert.False(t, seen[item.ID], "video %s appeared on two pages", item.ID)
			seen[item.ID] = true
		}
	}
	assert.Equal(t, int64(25), total)
	assert.Len(t, seen, 25)
}

func TestListRejectsUnknownSortColumn(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{})

	_, err := svc.List(uuid.Nil, "", PageRequest{Page: 1, Limit: 10, SortBy: "password"})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestVideoOwnerOnlyMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{})

	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	video := seedVideo(t, db, owner.ID, "guarded")

	_, err := svc.Update(video.ID, stranger.ID, &dto.UpdateVideoRequest{Title: "hijacked"})
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.ErrorIs(t, svc.Delete(video.ID, stranger.ID), apperr.ErrForbidden)
	_, err = svc.TogglePublish(video.ID, stranger.ID)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := svc.Update(video.ID, owner.ID, &dto.UpdateVideoRequest{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	toggled, err := svc.TogglePublish(video.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsPublished)
}

func TestDeleteMaintainsOwnerCache(t *testing.T) {
	db := newTestDB(t)
	svc := NewVideoService(db, &fakeUploader{url: "https://cdn.example.com/a.mp4"})

	owner := seedUser(t, db, "owner")

	first, err := svc.Publish(context.Background(), owner.ID, tempUpload(t), &dto.CreateVideoRequest{
		Title: "keep", Description: "stays",
	})
	require.NoError(t, err)
	second, err := svc.Publish(context.Background(), owner.ID, tempUpload(t), &dto.CreateVideoRequest{
		Title: "drop", Description: "goes",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(second.ID, owner.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", owner.ID).Error)
	var ids []uuid.UUID
	require.NoError(t, json.Unmarshal(stored.VideoIDs, &ids))
	assert.Equal(t, []uuid.UUID{first.ID}, ids)

	_, err = svc.Get(second.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
