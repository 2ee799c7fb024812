// Package testutil 提供测试用的内存数据库与数据构造器。
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/database"
)

// NewDB 打开一个独立的共享缓存内存库（单连接），并迁移全部模型
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), false)
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	db.Logger = gormlogger.Discard
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Seeder 直接写库构造测试数据
type Seeder struct {
	tb  testing.TB
	db  *gorm.DB
	seq int
}

func NewSeeder(tb testing.TB, db *gorm.DB) *Seeder { return &Seeder{tb: tb, db: db} }

func (s *Seeder) must(err error) {
	s.tb.Helper()
	if err != nil {
		s.tb.Fatalf("seed: %v", err)
	}
}

// User 创建用户，handle 为空时自动生成
func (s *Seeder) User(handle string) *model.User {
	s.tb.Helper()
	s.seq++
	if handle == "" {
		handle = fmt.Sprintf("user%03d", s.seq)
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Handle:       handle,
		DisplayName:  "User " + handle,
		Email:        handle + "@example.com",
		PasswordHash: "x",
		AvatarURL:    "https://cdn.example.com/avatars/" + handle + ".png",
	}
	s.must(s.db.Create(u).Error)
	return u
}

// Video 创建视频
func (s *Seeder) Video(owner *model.User, title string, views int64) *model.Video {
	s.tb.Helper()
	v := &model.Video{
		ID:           uuid.NewString(),
		OwnerID:      owner.ID,
		Title:        title,
		VideoURL:     "https://cdn.example.com/v/" + title + ".mp4",
		ThumbnailURL: "https://cdn.example.com/t/" + title + ".jpg",
		Duration:     60,
		Views:        views,
		IsPublished:  true,
	}
	s.must(s.db.Create(v).Error)
	return v
}

// Comment 在视频下创建评论
func (s *Seeder) Comment(owner *model.User, video *model.Video) *model.Comment {
	s.tb.Helper()
	c := &model.Comment{ID: uuid.NewString(), OwnerID: owner.ID, VideoID: &video.ID, Content: "nice"}
	s.must(s.db.Create(c).Error)
	return c
}

// Post 创建社区动态
func (s *Seeder) Post(owner *model.User) *model.CommunityPost {
	s.tb.Helper()
	p := &model.CommunityPost{ID: uuid.NewString(), OwnerID: owner.ID, Title: "post-" + uuid.NewString()[:8]}
	s.must(s.db.Create(p).Error)
	return p
}

// Subscribe 直接写入订阅关系，at 控制创建时间
func (s *Seeder) Subscribe(subscriber, channel *model.User, at time.Time) {
	s.tb.Helper()
	s.must(s.db.Create(&model.Subscription{
		ID: uuid.NewString(), SubscriberID: subscriber.ID, ChannelID: channel.ID, CreatedAt: at,
	}).Error)
}

// Watch 写入观看历史
func (s *Seeder) Watch(user *model.User, videoID string, at time.Time) {
	s.tb.Helper()
	s.must(s.db.Create(&model.WatchHistoryEntry{
		ID: uuid.NewString(), UserID: user.ID, VideoID: videoID, WatchedAt: at,
	}).Error)
}

// Ctx 带超时的测试上下文
func Ctx(tb testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	tb.Cleanup(cancel)
	return ctx
}
