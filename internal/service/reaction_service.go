package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/repository"
	"github.com/d60-Lab/videohub/pkg/apperr"
	"github.com/d60-Lab/videohub/pkg/logger"
	"github.com/d60-Lab/videohub/pkg/metrics"
)

// ReactionToggle 切换结果；只有新建时带 Reaction
type ReactionToggle struct {
	State    ToggleState     `json:"state"`
	Reaction *model.Reaction `json:"reaction,omitempty"`
}

// ReactionSummary 目标上的反应统计
type ReactionSummary struct {
	TargetType     model.TargetType `json:"target_type"`
	TargetID       string           `json:"target_id"`
	Likes          int64            `json:"likes"`
	Dislikes       int64            `json:"dislikes"`
	ViewerLiked    bool             `json:"viewer_liked"`
	ViewerDisliked bool             `json:"viewer_disliked"`
}

// ReactionService 点赞/点踩
type ReactionService interface {
	ToggleReaction(ctx context.Context, kind model.ReactionKind, targetType model.TargetType, targetID, actorID string) (*ReactionToggle, error)
	GetReactionSummary(ctx context.Context, targetType model.TargetType, targetID, viewerID string) (*ReactionSummary, error)
	ListLikedVideos(ctx context.Context, actorID string, page, pageSize int) ([]VideoWithOwner, error)
}

type reactionService struct {
	reactions repository.ReactionRepository
	content   repository.ContentRepository
	videos    repository.VideoRepository
	users     UserDirectory
}

func NewReactionService(reactions repository.ReactionRepository, content repository.ContentRepository, videos repository.VideoRepository, users UserDirectory) ReactionService {
	return &reactionService{reactions: reactions, content: content, videos: videos, users: users}
}

func (s *reactionService) ToggleReaction(ctx context.Context, kind model.ReactionKind, targetType model.TargetType, targetID, actorID string) (res *ReactionToggle, err error) {
	ctx, span := startSpan(ctx, "ReactionService.ToggleReaction",
		attribute.String("reaction.kind", string(kind)),
		attribute.String("target.type", string(targetType)),
		attribute.String("target.id", targetID))
	defer func() {
		var state ToggleState
		if res != nil {
			state = res.State
		}
		recordToggle(string(kind), string(targetType), state, err)
		endSpan(span, err)
	}()

	if err := checkStruct(reactionInput{
		Kind: string(kind), TargetType: string(targetType), TargetID: targetID, ActorID: actorID,
	}); err != nil {
		return nil, err
	}

	ok, err := s.content.TargetExists(ctx, targetType, targetID)
	if err != nil {
		return nil, apperr.FromStore("target lookup", err)
	}
	if !ok {
		return nil, apperr.NotFound(string(targetType))
	}

	key := repository.ReactionKey{Kind: kind, TargetType: targetType, TargetID: targetID, ActorID: actorID}
	row, added, err := s.reactions.Toggle(ctx, key, now())
	if err != nil {
		return nil, err
	}
	if !added {
		return &ReactionToggle{State: StateRemoved}, nil
	}
	return &ReactionToggle{State: StateAdded, Reaction: row}, nil
}

func (s *reactionService) GetReactionSummary(ctx context.Context, targetType model.TargetType, targetID, viewerID string) (summary *ReactionSummary, err error) {
	ctx, span := startSpan(ctx, "ReactionService.GetReactionSummary",
		attribute.String("target.type", string(targetType)),
		attribute.String("target.id", targetID),
	)
	defer func() { endSpan(span, err) }()

	if !targetType.Valid() {
		return nil, apperr.InvalidArgument("target_type is not recognised")
	}
	if err := checkID("target_id", targetID, false); err != nil {
		return nil, err
	}
	if err := checkID("viewer_id", viewerID, true); err != nil {
		return nil, err
	}
	ok, err := s.content.TargetExists(ctx, targetType, targetID)
	if err != nil {
		return nil, apperr.FromStore("target lookup", err)
	}
	if !ok {
		return nil, apperr.NotFound(string(targetType))
	}

	counts, err := s.reactions.CountByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	summary = &ReactionSummary{
		TargetType: targetType,
		TargetID:   targetID,
		Likes:      counts[model.ReactionLike],
		Dislikes:   counts[model.ReactionDislike],
	}
	if viewerID != "" {
		kinds, err := s.reactions.KindsByActor(ctx, targetType, targetID, viewerID)
		if err != nil {
			return nil, err
		}
		summary.ViewerLiked = kinds[model.ReactionLike]
		summary.ViewerDisliked = kinds[model.ReactionDislike]
	}
	return summary, nil
}

func (s *reactionService) ListLikedVideos(ctx context.Context, actorID string, page, pageSize int) (list []VideoWithOwner, err error) {
	ctx, span := startSpan(ctx, "ReactionService.ListLikedVideos", attribute.String("user.id", actorID))
	defer func() { endSpan(span, err) }()

	if err := checkID("actor_id", actorID, false); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	ids, err := s.reactions.ListTargetIDs(ctx, model.ReactionLike, model.TargetVideo, actorID, offset, limit)
	if err != nil {
		return nil, err
	}
	return loadVideosInOrder(ctx, s.videos, s.users, ids)
}

func recordToggle(relation, target string, state ToggleState, err error) {
	outcome := "error"
	switch {
	case err == nil:
		outcome = string(state)
	case apperr.KindOf(err) == apperr.KindConflict:
		outcome = "conflict"
	}
	metrics.Toggles.WithLabelValues(relation, target, outcome).Inc()
	if outcome == "conflict" {
		logger.Info("toggle conflict", zap.String("relation", relation), zap.String("target", target), zap.Error(err))
	}
}
