package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/videohub/internal/repository"
)

const (
	defaultTrendingLimit = 20
	maxTrendingLimit     = 100
)

// HistoryService 观看历史与播放计数
type HistoryService interface {
	// GetWatchHistory 最近观看的在前；已删除的视频被跳过
	GetWatchHistory(ctx context.Context, userID string, page, pageSize int) ([]VideoWithOwner, error)
	// RecordView viewerID 为空时只累加播放量
	RecordView(ctx context.Context, videoID, viewerID string) error
	GetTrending(ctx context.Context, limit int) ([]VideoWithOwner, error)
}

type historyService struct {
	history repository.WatchHistoryRepository
	videos  repository.VideoRepository
	users   UserDirectory
}

func NewHistoryService(history repository.WatchHistoryRepository, videos repository.VideoRepository, users UserDirectory) HistoryService {
	return &historyService{history: history, videos: videos, users: users}
}

func (s *historyService) GetWatchHistory(ctx context.Context, userID string, page, pageSize int) (out []VideoWithOwner, err error) {
	ctx, span := startSpan(ctx, "HistoryService.GetWatchHistory", attribute.String("user.id", userID))
	defer func() { endSpan(span, err) }()

	if err := checkID("user_id", userID, false); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	ids, err := s.history.ListVideoIDs(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return loadVideosInOrder(ctx, s.videos, s.users, ids)
}

func (s *historyService) RecordView(ctx context.Context, videoID, viewerID string) (err error) {
	ctx, span := startSpan(ctx, "HistoryService.RecordView", attribute.String("video.id", videoID))
	defer func() { endSpan(span, err) }()

	if err := checkID("video_id", videoID, false); err != nil {
		return err
	}
	if err := checkID("viewer_id", viewerID, true); err != nil {
		return err
	}
	return s.videos.RecordView(ctx, videoID, viewerID, now())
}

func (s *historyService) GetTrending(ctx context.Context, limit int) (out []VideoWithOwner, err error) {
	ctx, span := startSpan(ctx, "HistoryService.GetTrending")
	defer func() { endSpan(span, err) }()

	if limit < 1 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}
	videos, err := s.videos.ListTrending(ctx, limit)
	if err != nil {
		return nil, err
	}
	return attachOwners(ctx, s.users, videos)
}
