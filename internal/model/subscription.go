package model

import "time"

// Subscription 订阅关系（subscriber 订阅 channel）
type Subscription struct {
	ID           string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SubscriberID string `gorm:"type:varchar(36);not null;index:idx_sub_subscriber;uniqueIndex:idx_sub_pair,priority:1" json:"subscriber_id"`
	ChannelID    string `gorm:"type:varchar(36);not null;index:idx_sub_channel_created,priority:1;uniqueIndex:idx_sub_pair,priority:2" json:"channel_id"`
	// 复合唯一键，避免重复订阅
	// idx_sub_pair = (subscriber_id, channel_id)
	CreatedAt time.Time `gorm:"index:idx_sub_channel_created,priority:2" json:"created_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
