package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/repository"
	"github.com/d60-Lab/videohub/pkg/apperr"
	"github.com/d60-Lab/videohub/pkg/logger"
)

var ErrSelfSubscription = apperr.InvalidArgument("cannot subscribe to own channel")

// SubscriptionToggle 订阅切换结果；只有新建时带 Subscription
type SubscriptionToggle struct {
	State        ToggleState         `json:"state"`
	Subscription *model.Subscription `json:"subscription,omitempty"`
}

// SubscriberView 频道订阅者列表中的一项
type SubscriberView struct {
	SubscriberID              string    `json:"subscriber_id"`
	DisplayName               string    `json:"display_name"`
	Handle                    string    `json:"handle"`
	AvatarURL                 string    `json:"avatar_url"`
	IsFollowedByChannel       bool      `json:"is_followed_by_channel"`
	FollowerCountOfSubscriber int64     `json:"follower_count_of_subscriber"`
	SubscribedAt              time.Time `json:"subscribed_at"`
}

// ChannelSummary 用户订阅的频道
type ChannelSummary struct {
	ChannelID       string    `json:"channel_id"`
	DisplayName     string    `json:"display_name"`
	Handle          string    `json:"handle"`
	AvatarURL       string    `json:"avatar_url"`
	SubscriberCount int64     `json:"subscriber_count"`
	SubscribedAt    time.Time `json:"subscribed_at"`
}

// RelationshipService 订阅关系链服务
type RelationshipService interface {
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (*SubscriptionToggle, error)
	GetSubscribers(ctx context.Context, channelID string, page, pageSize int) ([]SubscriberView, error)
	GetSubscribedChannels(ctx context.Context, subscriberID string, page, pageSize int) ([]ChannelSummary, error)
}

type relationshipService struct {
	subs    repository.SubscriptionRepository
	users   repository.UserRepository
	summary UserDirectory
}

// NewRelationshipService summary 为空时直接使用 users 做批量摘要查询
func NewRelationshipService(subs repository.SubscriptionRepository, users repository.UserRepository, summary UserDirectory) RelationshipService {
	if summary == nil {
		summary = users
	}
	return &relationshipService{subs: subs, users: users, summary: summary}
}

func (s *relationshipService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (res *SubscriptionToggle, err error) {
	ctx, span := startSpan(ctx, "RelationshipService.ToggleSubscription",
		attribute.String("channel.id", channelID))
	defer func() {
		var state ToggleState
		if res != nil {
			state = res.State
		}
		recordToggle("subscription", "channel", state, err)
		endSpan(span, err)
	}()

	if err := checkStruct(subscriptionInput{SubscriberID: subscriberID, ChannelID: channelID}); err != nil {
		return nil, err
	}
	if subscriberID == channelID {
		return nil, ErrSelfSubscription
	}
	ok, err := s.users.Exists(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("channel")
	}

	row, added, err := s.subs.Toggle(ctx, subscriberID, channelID, now())
	if err != nil {
		return nil, err
	}
	if !added {
		return &SubscriptionToggle{State: StateRemoved}, nil
	}
	return &SubscriptionToggle{State: StateAdded, Subscription: row}, nil
}

// GetSubscribers 一页订阅者 + 一次分组计数 + 一次回关查询 + 一次摘要批量查询
func (s *relationshipService) GetSubscribers(ctx context.Context, channelID string, page, pageSize int) (views []SubscriberView, err error) {
	ctx, span := startSpan(ctx, "RelationshipService.GetSubscribers", attribute.String("channel.id", channelID))
	defer func() { endSpan(span, err) }()

	if err := checkID("channel_id", channelID, false); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	rows, err := s.subs.ListSubscribers(ctx, channelID, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []SubscriberView{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.SubscriberID)
	}
	counts, err := s.subs.CountSubscribersOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	followed, err := s.subs.FollowedAmong(ctx, channelID, ids)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summary.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	views = make([]SubscriberView, 0, len(rows))
	for _, r := range rows {
		u, ok := summaries[r.SubscriberID]
		if !ok {
			// 订阅者账号已删除，订阅行成为孤儿
			logger.Debug("skip orphan subscriber", zap.String("channel_id", channelID), zap.String("subscriber_id", r.SubscriberID))
			continue
		}
		views = append(views, SubscriberView{
			SubscriberID:              r.SubscriberID,
			DisplayName:               u.DisplayName,
			Handle:                    u.Handle,
			AvatarURL:                 u.AvatarURL,
			IsFollowedByChannel:       followed[r.SubscriberID],
			FollowerCountOfSubscriber: counts[r.SubscriberID],
			SubscribedAt:              r.CreatedAt,
		})
	}
	return views, nil
}

func (s *relationshipService) GetSubscribedChannels(ctx context.Context, subscriberID string, page, pageSize int) (out []ChannelSummary, err error) {
	ctx, span := startSpan(ctx, "RelationshipService.GetSubscribedChannels", attribute.String("subscriber.id", subscriberID))
	defer func() { endSpan(span, err) }()

	if err := checkID("user_id", subscriberID, false); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	rows, err := s.subs.ListSubscriptions(ctx, subscriberID, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []ChannelSummary{}, nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ChannelID)
	}
	counts, err := s.subs.CountSubscribersOf(ctx, ids)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summary.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out = make([]ChannelSummary, 0, len(rows))
	for _, r := range rows {
		u, ok := summaries[r.ChannelID]
		if !ok {
			continue
		}
		out = append(out, ChannelSummary{
			ChannelID:       r.ChannelID,
			DisplayName:     u.DisplayName,
			Handle:          u.Handle,
			AvatarURL:       u.AvatarURL,
			SubscriberCount: counts[r.ChannelID],
			SubscribedAt:    r.CreatedAt,
		})
	}
	return out, nil
}
