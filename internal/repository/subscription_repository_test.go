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

func TestSubscriptionToggle(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := testutil.Ctx(t)
	a, b := s.User("alice"), s.User("bob")

	sub, added, err := repo.Toggle(ctx, a.ID, b.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, b.ID, sub.ChannelID)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	removed, added, err := repo.Toggle(ctx, a.ID, b.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, sub.ID, removed.ID)

	ok, err = repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscriptionCreateDuplicateIsConflict(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := testutil.Ctx(t)
	a, b := s.User(""), s.User("")

	_, err := repo.Create(ctx, a.ID, b.ID, time.Now())
	require.NoError(t, err)
	_, err = repo.Create(ctx, a.ID, b.ID, time.Now())
	assert.ErrorIs(t, err, apperr.ErrConflict)

	var cnt int64
	require.NoError(t, db.Model(&model.Subscription{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestSubscriptionAggregates(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := testutil.Ctx(t)

	ch, x, y, z := s.User("chan"), s.User("x"), s.User("y"), s.User("z")
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Subscribe(y, ch, t0.Add(2*time.Second))
	s.Subscribe(x, ch, t0.Add(time.Second))
	s.Subscribe(z, ch, t0.Add(2*time.Second))
	s.Subscribe(ch, y, t0)
	s.Subscribe(z, y, t0)

	n, err := repo.CountSubscribers(ctx, ch.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repo.CountSubscriptions(ctx, z.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	counts, err := repo.CountSubscribersOf(ctx, []string{x.ID, y.ID, z.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, counts[x.ID])
	assert.EqualValues(t, 2, counts[y.ID])

	followed, err := repo.FollowedAmong(ctx, ch.ID, []string{x.ID, y.ID, z.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{y.ID: true}, followed)

	subs, err := repo.ListSubscribers(ctx, ch.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, subs, 3)
	assert.Equal(t, x.ID, subs[0].SubscriberID)
	// y 与 z 同一时间订阅，按 subscriber_id 排序
	want := []string{y.ID, z.ID}
	if z.ID < y.ID {
		want = []string{z.ID, y.ID}
	}
	assert.Equal(t, want, []string{subs[1].SubscriberID, subs[2].SubscriberID})

	page, err := repo.ListSubscribers(ctx, ch.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, want[0], page[0].SubscriberID)
}
