package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

// ContentRepository 评论与社区动态，以及反应目标的存在性检查
type ContentRepository interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	CreatePost(ctx context.Context, p *model.CommunityPost) error
	TargetExists(ctx context.Context, targetType model.TargetType, id string) (bool, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository { return &contentRepository{db: db} }

func (r *contentRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return apperr.FromStore("comments.create", r.db.WithContext(ctx).Create(c).Error)
}

func (r *contentRepository) CreatePost(ctx context.Context, p *model.CommunityPost) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return apperr.FromStore("community_posts.create", r.db.WithContext(ctx).Create(p).Error)
}

func (r *contentRepository) TargetExists(ctx context.Context, targetType model.TargetType, id string) (bool, error) {
	switch targetType {
	case model.TargetVideo:
		return exists(ctx, r.db, &model.Video{}, "videos.exists", id)
	case model.TargetComment:
		return exists(ctx, r.db, &model.Comment{}, "comments.exists", id)
	case model.TargetCommunityPost:
		return exists(ctx, r.db, &model.CommunityPost{}, "community_posts.exists", id)
	}
	return false, fmt.Errorf("unknown target type %q", targetType)
}
