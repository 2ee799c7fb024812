package repository

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/testutil"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

// interleave 在 table 上的下一次 create/delete 执行前，于同一事务内插入一次并发写
type interleave struct {
	armed atomic.Bool
	fired atomic.Bool
}

func (i *interleave) hook(table string, write func(tx *gorm.DB) error) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		if tx.Statement.Schema == nil || tx.Statement.Schema.Table != table {
			return
		}
		if !i.armed.CompareAndSwap(true, false) {
			return
		}
		i.fired.Store(true)
		if err := write(tx.Session(&gorm.Session{NewDB: true})); err != nil {
			_ = tx.AddError(err)
		}
	}
}

func beforeCreate(t *testing.T, db *gorm.DB, table string, write func(tx *gorm.DB) error) *interleave {
	t.Helper()
	i := &interleave{}
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:interleave_create", i.hook(table, write)))
	return i
}

func beforeDelete(t *testing.T, db *gorm.DB, table string, write func(tx *gorm.DB) error) *interleave {
	t.Helper()
	i := &interleave{}
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("test:interleave_delete", i.hook(table, write)))
	return i
}

func countReactions(t *testing.T, db *gorm.DB, key ReactionKey) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Reaction{}).
		Where("kind = ? AND target_type = ? AND target_id = ? AND actor_id = ?", key.Kind, key.TargetType, key.TargetID, key.ActorID).
		Count(&n).Error)
	return n
}

func TestToggleInsertLosesRace(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewReactionRepository(db)
	ctx := testutil.Ctx(t)

	u := s.User("")
	v := s.Video(u, "v", 0)
	key := ReactionKey{Kind: model.ReactionLike, TargetType: model.TargetVideo, TargetID: v.ID, ActorID: u.ID}

	race := beforeCreate(t, db, "reactions", func(tx *gorm.DB) error {
		return tx.Create(key.row(time.Now())).Error
	})
	race.armed.Store(true)

	_, added, err := repo.Toggle(ctx, key, time.Now())
	require.True(t, race.fired.Load())
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.False(t, added)
	// 整个事务回滚，包括抢先插入的那一行
	assert.Zero(t, countReactions(t, db, key))

	_, added, err = repo.Toggle(ctx, key, time.Now())
	require.NoError(t, err)
	assert.True(t, added)
	assert.EqualValues(t, 1, countReactions(t, db, key))
}

func TestToggleDeleteLosesRace(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewReactionRepository(db)
	ctx := testutil.Ctx(t)

	u := s.User("")
	p := s.Post(u)
	key := ReactionKey{Kind: model.ReactionDislike, TargetType: model.TargetCommunityPost, TargetID: p.ID, ActorID: u.ID}
	_, err := repo.Create(ctx, key, time.Now())
	require.NoError(t, err)

	race := beforeDelete(t, db, "reactions", func(tx *gorm.DB) error {
		return tx.Exec("DELETE FROM reactions WHERE kind = ? AND target_type = ? AND target_id = ? AND actor_id = ?",
			key.Kind, key.TargetType, key.TargetID, key.ActorID).Error
	})
	race.armed.Store(true)

	_, added, err := repo.Toggle(ctx, key, time.Now())
	require.True(t, race.fired.Load())
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.False(t, added)
	// 失败的切换不改变状态，也不会留下重复行
	assert.EqualValues(t, 1, countReactions(t, db, key))

	_, added, err = repo.Toggle(ctx, key, time.Now())
	require.NoError(t, err)
	assert.False(t, added)
	assert.Zero(t, countReactions(t, db, key))
}

func TestSubscriptionToggleLosesRace(t *testing.T) {
	db := testutil.NewDB(t)
	s := testutil.NewSeeder(t, db)
	repo := NewSubscriptionRepository(db)
	ctx := testutil.Ctx(t)
	a, b := s.User(""), s.User("")

	race := beforeCreate(t, db, "subscriptions", func(tx *gorm.DB) error {
		return tx.Create(&model.Subscription{ID: uuid.NewString(), SubscriberID: a.ID, ChannelID: b.ID, CreatedAt: time.Now()}).Error
	})
	race.armed.Store(true)

	_, _, err := repo.Toggle(ctx, a.ID, b.ID, time.Now())
	require.True(t, race.fired.Load())
	assert.ErrorIs(t, err, apperr.ErrConflict)

	ok, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
