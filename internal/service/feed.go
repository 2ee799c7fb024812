package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/repository"
	"github.com/d60-Lab/videohub/pkg/logger"
)

// loadVideosInOrder 按 ids 顺序批量加载视频并附上作者摘要。
// 已删除的视频直接跳过，不让整个列表失败。
func loadVideosInOrder(ctx context.Context, videos repository.VideoRepository, users UserDirectory, ids []string) ([]VideoWithOwner, error) {
	if len(ids) == 0 {
		return []VideoWithOwner{}, nil
	}
	byID, err := videos.GetByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	ordered := make([]*model.Video, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			logger.Debug("skip vanished video", zap.String("video_id", id))
			continue
		}
		ordered = append(ordered, v)
	}
	return attachOwners(ctx, users, ordered)
}

// attachOwners 一次批量查询所有作者
func attachOwners(ctx context.Context, users UserDirectory, videos []*model.Video) ([]VideoWithOwner, error) {
	ownerIDs := make([]string, 0, len(videos))
	for _, v := range videos {
		ownerIDs = append(ownerIDs, v.OwnerID)
	}
	owners, err := users.GetSummaries(ctx, uniq(ownerIDs))
	if err != nil {
		return nil, err
	}
	out := make([]VideoWithOwner, 0, len(videos))
	for _, v := range videos {
		item := VideoWithOwner{Video: *v}
		if o, ok := owners[v.OwnerID]; ok {
			o := o
			item.Owner = &o
		}
		out = append(out, item)
	}
	return out, nil
}
