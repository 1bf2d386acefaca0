package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phibrew/vidstream-backend/internal/apperr"
	"github.com/phibrew/vidstream-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestToggleParity(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db, testConfig())

	owner := seedUser(t, db, "owner")
	liker := seedUser(t, db, "liker")
	video := seedVideo(t, db, owner.ID, "parity")

	// An odd number of toggles leaves the relationship active, an even
	// number leaves it inactive.
	for n := 1; n <= 10; n++ {
		active, err := svc.Toggle(liker.ID, video.ID, models.KindVideo)
		require.NoError(t, err)
		assert.Equal(t, n%2 == 1, active, "after %d toggles", n)

		var count int64
		require.NoError(t, db.Model(&models.Like{}).
			Where("user_id = ? AND content_id = ?", liker.ID, video.ID).
			Count(&count).Error)
		assert.Equal(t, int64(n%2), count)
	}
}

func TestToggleValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db, testConfig())

	owner := seedUser(t, db, "owner")
	liker := seedUser(t, db, "liker")
	video := seedVideo(t, db, owner.ID, "validation")

	_, err := svc.Toggle(liker.ID, video.ID, models.ContentKind("playlist"))
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Toggle(liker.ID, uuid.New(), models.KindVideo)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestToggleAllKinds(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db, testConfig())

	owner := seedUser(t, db, "owner")
	liker := seedUser(t, db, "liker")
	video := seedVideo(t, db, owner.ID, "kinds")

	tweet := models.Tweet{OwnerID: owner.ID, Content: "hello"}
	require.NoError(t, db.Create(&tweet).Error)
	comment := models.Comment{OwnerID: owner.ID, VideoID: video.ID, Content: "nice"}
	require.NoError(t, db.Create(&comment).Error)

	for _, tc := range []struct {
		kind models.ContentKind
		id   uuid.UUID
	}{
		{models.KindVideo, video.ID},
		{models.KindTweet, tweet.ID},
		{models.KindComment, comment.ID},
	} {
		active, err := svc.Toggle(liker.ID, tc.id, tc.kind)
		require.NoError(t, err, "kind %s", tc.kind)
		assert.True(t, active)
	}

	liked, err := svc.ListLiked(liker.ID)
	require.NoError(t, err)
	assert.Len(t, liked, 3)
}

func TestSelfLikePolicy(t *testing.T) {
	db := newTestDB(t)

	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner.ID, "selflike")

	denying := NewLikeService(db, testConfig())
	_, err := denying.Toggle(owner.ID, video.ID, models.KindVideo)
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	cfg := testConfig()
	cfg.AllowSelfLike = true
	allowing := NewLikeService(db, cfg)
	active, err := allowing.Toggle(owner.ID, video.ID, models.KindVideo)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLikeTripleUniqueness(t *testing.T) {
	db := newTestDB(t)

	owner := seedUser(t, db, "owner")
	liker := seedUser(t, db, "liker")
	video := seedVideo(t, db, owner.ID, "unique")

	first := models.Like{UserID: liker.ID, ContentID: video.ID, ContentKind: models.KindVideo}
	require.NoError(t, db.Create(&first).Error)

	// A duplicate create for the same triple must fail loudly at the
	// storage layer, never silently duplicate.
	dup := models.Like{UserID: liker.ID, ContentID: video.ID, ContentKind: models.KindVideo}
	err := db.Create(&dup).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The same user liking the same id under a different kind is a
	// different triple.
	tweet := models.Tweet{OwnerID: owner.ID, Content: "t"}
	require.NoError(t, db.Create(&tweet).Error)
	other := models.Like{UserID: liker.ID, ContentID: tweet.ID, ContentKind: models.KindTweet}
	require.NoError(t, db.Create(&other).Error)
}

func TestListLikedSkipsDeletedTargets(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db, testConfig())

	owner := seedUser(t, db, "owner")
	liker := seedUser(t, db, "liker")
	kept := seedVideo(t, db, owner.ID, "kept")
	gone := seedVideo(t, db, owner.ID, "gone")

	_, err := svc.Toggle(liker.ID, kept.ID, models.KindVideo)
	require.NoError(t, err)
	_, err = svc.Toggle(liker.ID, gone.ID, models.KindVideo)
	require.NoError(t, err)

	require.NoError(t, db.Delete(gone).Error)

	liked, err := svc.ListLiked(liker.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "video", liked[0].Kind)
}

func TestCountForOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewLikeService(db, testConfig())

	owner := seedUser(t, db, "owner")
	fan1 := seedUser(t, db, "fan1")
	fan2 := seedUser(t, db, "fan2")
	video := seedVideo(t, db, owner.ID, "counted")
	tweet := models.Tweet{OwnerID: owner.ID, Content: "hi"}
	require.NoError(t, db.Create(&tweet).Error)

	for _, fan := range []uuid.UUID{fan1.ID, fan2.ID} {
		_, err := svc.Toggle(fan, video.ID, models.KindVideo)
		require.NoError(t, err)
	}
	_, err := svc.Toggle(fan1.ID, tweet.ID, models.KindTweet)
	require.NoError(t, err)

	total, err := svc.CountForOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}
