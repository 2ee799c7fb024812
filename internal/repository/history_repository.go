package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

type WatchHistoryRepository interface {
	// Record 追加或刷新一条观看记录
	Record(ctx context.Context, userID, videoID string, at time.Time) error
	// ListVideoIDs 最近观看的在前
	ListVideoIDs(ctx context.Context, userID string, offset, limit int) ([]string, error)
}

type watchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) WatchHistoryRepository {
	return &watchHistoryRepository{db: db}
}

func (r *watchHistoryRepository) Record(ctx context.Context, userID, videoID string, at time.Time) error {
	e := &model.WatchHistoryEntry{ID: uuid.New().String(), UserID: userID, VideoID: videoID, WatchedAt: at}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_at"}),
	}).Create(e).Error
	return apperr.FromStore("watch_history.record", err)
}

func (r *watchHistoryRepository) ListVideoIDs(ctx context.Context, userID string, offset, limit int) ([]string, error) {
	var ids []string
	q := r.db.WithContext(ctx).
		Model(&model.WatchHistoryEntry{}).
		Where("user_id = ?", userID).
		Order("watched_at DESC, id DESC")
	if err := paginate(q, offset, limit).Pluck("video_id", &ids).Error; err != nil {
		return nil, apperr.FromStore("watch_history.list", err)
	}
	return ids, nil
}
