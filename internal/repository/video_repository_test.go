package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/testutil"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

func TestVideoViewsAndTrending(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewVideoRepository(db)
	ctx := testutil.Ctx(t)

	u := s.User("")
	low, high := s.Video(u, "low", 1), s.Video(u, "high", 10)
	hidden := s.Video(u, "hidden", 100)
	require.NoError(t, db.Model(hidden).Update("is_published", false).Error)

	require.NoError(t, repo.RecordView(ctx, low.ID, "", time.Now()))
	got, err := repo.GetByIDs(ctx, []string{low.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got[low.ID].Views)

	top, err := repo.ListTrending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, high.ID, top[0].ID)
	assert.Equal(t, low.ID, top[1].ID)

	byID, err := repo.GetByIDs(ctx, []string{low.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
}

func TestTargetExists(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewContentRepository(db)
	ctx := testutil.Ctx(t)

	u := s.User("")
	v := s.Video(u, "v", 0)
	c := s.Comment(u, v)
	p := s.Post(u)

	for tt, id := range map[model.TargetType]string{
		model.TargetVideo: v.ID, model.TargetComment: c.ID, model.TargetCommunityPost: p.ID,
	} {
		ok, err := repo.TargetExists(ctx, tt, id)
		require.NoError(t, err)
		assert.True(t, ok, tt)
	}
	ok, err := repo.TargetExists(ctx, model.TargetComment, v.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.TargetExists(ctx, model.TargetType("playlist"), v.ID)
	assert.Error(t, err)
}

func TestWatchHistoryRecordMovesToTop(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewWatchHistoryRepository(db)
	ctx := testutil.Ctx(t)

	u := s.User("")
	a, b := s.Video(u, "a", 0), s.Video(u, "b", 0)
	t0 := time.Now()
	require.NoError(t, repo.Record(ctx, u.ID, a.ID, t0))
	require.NoError(t, repo.Record(ctx, u.ID, b.ID, t0.Add(time.Second)))
	require.NoError(t, repo.Record(ctx, u.ID, a.ID, t0.Add(2*time.Second)))

	ids, err := repo.ListVideoIDs(ctx, u.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := testutil.Ctx(t)

	u, err := repo.Create(ctx, NewUser{Handle: " Creator ", DisplayName: "Creator", Email: "c@example.com", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "creator", u.Handle)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	got, err := repo.GetByHandle(ctx, "CREATOR")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.Create(ctx, NewUser{Handle: "creator", DisplayName: "dup", Email: "d@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	sums, err := repo.GetSummaries(ctx, []string{u.ID, "nope"})
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "Creator", sums[u.ID].DisplayName)
}

func TestRecordViewWritesHistory(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	videos := NewVideoRepository(db)
	history := NewWatchHistoryRepository(db)
	ctx := testutil.Ctx(t)

	owner, viewer := s.User(""), s.User("")
	v := s.Video(owner, "clip", 0)

	require.NoError(t, videos.RecordView(ctx, v.ID, "", time.Now()))
	require.NoError(t, videos.RecordView(ctx, v.ID, viewer.ID, time.Now()))

	got, err := videos.GetByIDs(ctx, []string{v.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got[v.ID].Views)

	ids, err := history.ListVideoIDs(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{v.ID}, ids)

	err = videos.RecordView(ctx, "00000000-0000-0000-0000-000000000000", viewer.ID, time.Now())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	ids, err = history.ListVideoIDs(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
