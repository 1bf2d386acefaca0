package services

import (
	"testing"

	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/dto"
	"github.com/phibrew/vidstream-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylistCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlaylistService(db)

	owner := seedUser(t, db, "owner")

	_, err := svc.Create(owner.ID, &dto.CreatePlaylistRequest{})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	playlist, err := svc.Create(owner.ID, &dto.CreatePlaylistRequest{Name: "favs", Description: "desc"})
	require.NoError(t, err)

	detail, err := svc.Get(playlist.ID)
	require.NoError(t, err)
	assert.Equal(t, "favs", detail.Name)
	assert.Equal(t, "owner", detail.Owner.Username)
	assert.Empty(t, detail.Videos)
}

func TestPlaylistMembershipOrderAndDedup(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlaylistService(db)

	owner := seedUser(t, db, "owner")
	playlist, err := svc.Create(owner.ID, &dto.CreatePlaylistRequest{Name: "ordered"})
	require.NoError(t, err)

	v1 := seedVideo(t, db, owner.ID, "first")
	v2 := seedVideo(t, db, owner.ID, "second")
	v3 := seedVideo(t, db, owner.ID, "third")

	require.NoError(t, svc.AddVideo(playlist.ID, v1.ID, owner.ID))
	require.NoError(t, svc.AddVideo(playlist.ID, v2.ID, owner.ID))
	require.NoError(t, svc.AddVideo(playlist.ID, v3.ID, owner.ID))

	// Re-adding an existing video is an idempotent success and does not
	// duplicate the entry or disturb the order.
	require.NoError(t, svc.AddVideo(playlist.ID, v2.ID, owner.ID))

	detail, err := svc.Get(playlist.ID)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 3)
	assert.Equal(t, v1.ID, detail.Videos[0].ID)
	assert.Equal(t, v2.ID, detail.Videos[1].ID)
	assert.Equal(t, v3.ID, detail.Videos[2].ID)

	// Removing a video not in the playlist is also idempotent.
	require.NoError(t, svc.RemoveVideo(playlist.ID, v2.ID, owner.ID))
	require.NoError(t, svc.RemoveVideo(playlist.ID, v2.ID, owner.ID))

	detail, err = svc.Get(playlist.ID)
	require.NoError(t, err)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, v1.ID, detail.Videos[0].ID)
	assert.Equal(t, v3.ID, detail.Videos[1].ID)
}

func TestPlaylistOwnerOnlyMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlaylistService(db)

	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	video := seedVideo(t, db, owner.ID, "clip")

	playlist, err := svc.Create(owner.ID, &dto.CreatePlaylistRequest{Name: "mine"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.AddVideo(playlist.ID, video.ID, stranger.ID), apperr.ErrForbidden)
	_, err = svc.Update(playlist.ID, stranger.ID, &dto.UpdatePlaylistRequest{Name: "stolen"})
	require.ErrorIs(t, err, apperr.ErrForbidden)
	require.ErrorIs(t, svc.Delete(playlist.ID, stranger.ID), apperr.ErrForbidden)

	// The owner can do all three.
	require.NoError(t, svc.AddVideo(playlist.ID, video.ID, owner.ID))
	_, err = svc.Update(playlist.ID, owner.ID, &dto.UpdatePlaylistRequest{Name: "renamed"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(playlist.ID, owner.ID))

	// Membership rows are gone with the playlist.
	var count int64
	require.NoError(t, db.Model(&models.PlaylistVideo{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPlaylistAddMissingVideo(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlaylistService(db)

	owner := seedUser(t, db, "owner")
	playlist, err := svc.Create(owner.ID, &dto.CreatePlaylistRequest{Name: "sparse"})
	require.NoError(t, err)

	missing := seedVideo(t, db, owner.ID, "soon-gone")
	require.NoError(t, db.Unscoped().Delete(missing).Error)

	require.ErrorIs(t, svc.AddVideo(playlist.ID, missing.ID, owner.ID), apperr.ErrNotFound)
}
