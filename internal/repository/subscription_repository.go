package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID, channelID string, at time.Time) (*model.Subscription, bool, error)
	Create(ctx context.Context, subscriberID, channelID string, at time.Time) (*model.Subscription, error)
	Exists(ctx context.Context, subscriberID, channelID string) (bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID string) (int64, error)
	// CountSubscribersOf 一次分组查询统计多个频道的订阅数
	CountSubscribersOf(ctx context.Context, channelIDs []string) (map[string]int64, error)
	// FollowedAmong 返回 subscriberID 订阅了 channelIDs 中的哪些频道
	FollowedAmong(ctx context.Context, subscriberID string, channelIDs []string) (map[string]bool, error)
	ListSubscribers(ctx context.Context, channelID string, offset, limit int) ([]*model.Subscription, error)
	ListSubscriptions(ctx context.Context, subscriberID string, offset, limit int) ([]*model.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID string, at time.Time) (*model.Subscription, bool, error) {
	match := &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
	return toggleRow(ctx, r.db, "subscriptions.toggle", match, func() *model.Subscription {
		return &model.Subscription{ID: uuid.New().String(), SubscriberID: subscriberID, ChannelID: channelID, CreatedAt: at}
	})
}

func (r *subscriptionRepository) Create(ctx context.Context, subscriberID, channelID string, at time.Time) (*model.Subscription, error) {
	s := &model.Subscription{ID: uuid.New().String(), SubscriberID: subscriberID, ChannelID: channelID, CreatedAt: at}
	// 不做 OnConflict DoNothing：重复订阅必须显式失败
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, apperr.FromStore("subscriptions.create", err)
	}
	return s, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, channelID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&cnt).Error; err != nil {
		return false, apperr.FromStore("subscriptions.exists", err)
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("channel_id = ?", channelID).Count(&cnt).Error
	return cnt, apperr.FromStore("subscriptions.count_subscribers", err)
}

func (r *subscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("subscriber_id = ?", subscriberID).Count(&cnt).Error
	return cnt, apperr.FromStore("subscriptions.count_subscriptions", err)
}

func (r *subscriptionRepository) CountSubscribersOf(ctx context.Context, channelIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(channelIDs))
	if len(channelIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ChannelID string
		Total     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Select("channel_id, COUNT(*) AS total").
		Where("channel_id IN ?", channelIDs).
		Group("channel_id").
		Scan(&rows).Error; err != nil {
		return nil, apperr.FromStore("subscriptions.count_subscribers_of", err)
	}
	for _, row := range rows {
		out[row.ChannelID] = row.Total
	}
	return out, nil
}

func (r *subscriptionRepository) FollowedAmong(ctx context.Context, subscriberID string, channelIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(channelIDs))
	if len(channelIDs) == 0 {
		return out, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id IN ?", subscriberID, channelIDs).
		Pluck("channel_id", &ids).Error; err != nil {
		return nil, apperr.FromStore("subscriptions.followed_among", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *subscriptionRepository) ListSubscribers(ctx context.Context, channelID string, offset, limit int) ([]*model.Subscription, error) {
	var res []*model.Subscription
	q := r.db.WithContext(ctx).Where("channel_id = ?", channelID).Order("created_at ASC, subscriber_id ASC")
	if err := paginate(q, offset, limit).Find(&res).Error; err != nil {
		return nil, apperr.FromStore("subscriptions.list_subscribers", err)
	}
	return res, nil
}

func (r *subscriptionRepository) ListSubscriptions(ctx context.Context, subscriberID string, offset, limit int) ([]*model.Subscription, error) {
	var res []*model.Subscription
	q := r.db.WithContext(ctx).Where("subscriber_id = ?", subscriberID).Order("created_at ASC, channel_id ASC")
	if err := paginate(q, offset, limit).Find(&res).Error; err != nil {
		return nil, apperr.FromStore("subscriptions.list_subscriptions", err)
	}
	return res, nil
}
