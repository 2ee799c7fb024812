package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

// ReactionKey 反应的唯一键
type ReactionKey struct {
	Kind       model.ReactionKind
	TargetType model.TargetType
	TargetID   string
	ActorID    string
}

type ReactionRepository interface {
	Toggle(ctx context.Context, key ReactionKey, at time.Time) (*model.Reaction, bool, error)
	Create(ctx context.Context, key ReactionKey, at time.Time) (*model.Reaction, error)
	// CountByTarget 按 kind 分组统计某个目标上的反应数
	CountByTarget(ctx context.Context, targetType model.TargetType, targetID string) (map[model.ReactionKind]int64, error)
	// KindsByActor 某个用户在目标上持有的反应
	KindsByActor(ctx context.Context, targetType model.TargetType, targetID, actorID string) (map[model.ReactionKind]bool, error)
	// ListTargetIDs 用户反应过的目标，最新的在前
	ListTargetIDs(ctx context.Context, kind model.ReactionKind, targetType model.TargetType, actorID string, offset, limit int) ([]string, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (k ReactionKey) row(at time.Time) *model.Reaction {
	return &model.Reaction{
		ID:         uuid.New().String(),
		Kind:       k.Kind,
		TargetType: k.TargetType,
		TargetID:   k.TargetID,
		ActorID:    k.ActorID,
		CreatedAt:  at,
	}
}

func (r *reactionRepository) Toggle(ctx context.Context, key ReactionKey, at time.Time) (*model.Reaction, bool, error) {
	match := &model.Reaction{Kind: key.Kind, TargetType: key.TargetType, TargetID: key.TargetID, ActorID: key.ActorID}
	return toggleRow(ctx, r.db, "reactions.toggle", match, func() *model.Reaction { return key.row(at) })
}

func (r *reactionRepository) Create(ctx context.Context, key ReactionKey, at time.Time) (*model.Reaction, error) {
	row := key.row(at)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperr.FromStore("reactions.create", err)
	}
	return row, nil
}

func (r *reactionRepository) CountByTarget(ctx context.Context, targetType model.TargetType, targetID string) (map[model.ReactionKind]int64, error) {
	var rows []struct {
		Kind  model.ReactionKind
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Select("kind, COUNT(*) AS total").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Group("kind").
		Scan(&rows).Error; err != nil {
		return nil, apperr.FromStore("reactions.count_by_target", err)
	}
	out := make(map[model.ReactionKind]int64, len(rows))
	for _, row := range rows {
		out[row.Kind] = row.Total
	}
	return out, nil
}

func (r *reactionRepository) KindsByActor(ctx context.Context, targetType model.TargetType, targetID, actorID string) (map[model.ReactionKind]bool, error) {
	var kinds []model.ReactionKind
	if err := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Where("target_type = ? AND target_id = ? AND actor_id = ?", targetType, targetID, actorID).
		Pluck("kind", &kinds).Error; err != nil {
		return nil, apperr.FromStore("reactions.kinds_by_actor", err)
	}
	out := make(map[model.ReactionKind]bool, len(kinds))
	for _, k := range kinds {
		out[k] = true
	}
	return out, nil
}

func (r *reactionRepository) ListTargetIDs(ctx context.Context, kind model.ReactionKind, targetType model.TargetType, actorID string, offset, limit int) ([]string, error) {
	var ids []string
	q := r.db.WithContext(ctx).
		Model(&model.Reaction{}).
		Where("kind = ? AND target_type = ? AND actor_id = ?", kind, targetType, actorID).
		Order("created_at DESC, id DESC")
	if err := paginate(q, offset, limit).Pluck("target_id", &ids).Error; err != nil {
		return nil, apperr.FromStore("reactions.list_target_ids", err)
	}
	return ids, nil
}
