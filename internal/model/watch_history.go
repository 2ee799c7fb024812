package model

import "time"

// WatchHistoryEntry 观看历史（每个用户每个视频一条，重看时刷新 WatchedAt）
type WatchHistoryEntry struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_history_user_video;index:idx_history_user_watched,priority:1"`
	VideoID   string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_history_user_video"`
	WatchedAt time.Time `gorm:"not null;index:idx_history_user_watched,priority:2"`
}

func (WatchHistoryEntry) TableName() string { return "watch_history" }

// All 需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{}, &Video{}, &Comment{}, &CommunityPost{},
		&Reaction{}, &Subscription{}, &WatchHistoryEntry{},
	}
}
