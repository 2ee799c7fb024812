package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

type VideoRepository interface {
	Create(ctx context.Context, v *model.Video) error
	// GetByIDs 批量查询，已删除的视频不出现在结果中
	GetByIDs(ctx context.Context, ids []string) (map[string]*model.Video, error)
	// RecordView 播放量 +1，viewerID 非空时同一事务内刷新观看历史
	RecordView(ctx context.Context, videoID, viewerID string, at time.Time) error
	ListTrending(ctx context.Context, limit int) ([]*model.Video, error)
}

type videoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository { return &videoRepository{db: db} }

func (r *videoRepository) Create(ctx context.Context, v *model.Video) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return apperr.FromStore("videos.create", r.db.WithContext(ctx).Create(v).Error)
}

func (r *videoRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*model.Video, error) {
	out := make(map[string]*model.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var videos []*model.Video
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, apperr.FromStore("videos.get_by_ids", err)
	}
	for _, v := range videos {
		out[v.ID] = v
	}
	return out, nil
}

func (r *videoRepository) RecordView(ctx context.Context, videoID, viewerID string, at time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := incrementViews(tx, "videos.record_view", videoID); err != nil {
			return err
		}
		if viewerID == "" {
			return nil
		}
		return NewWatchHistoryRepository(tx).Record(ctx, viewerID, videoID, at)
	})
	return apperr.FromStore("videos.record_view", err)
}

// incrementViews 原子自增播放量
func incrementViews(db *gorm.DB, op, id string) error {
	res := db.Model(&model.Video{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return apperr.FromStore(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("video")
	}
	return nil
}

func (r *videoRepository) ListTrending(ctx context.Context, limit int) ([]*model.Video, error) {
	var res []*model.Video
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("views DESC, created_at DESC").
		Limit(limit).
		Find(&res).Error
	if err != nil {
		return nil, apperr.FromStore("videos.list_trending", err)
	}
	return res, nil
}

func exists(ctx context.Context, db *gorm.DB, m interface{}, op, id string) (bool, error) {
	var cnt int64
	if err := db.WithContext(ctx).Model(m).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, apperr.FromStore(op, err)
	}
	return cnt > 0, nil
}
