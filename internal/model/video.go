package model

import "time"

// Video 视频元数据；媒体文件本身存放在外部对象存储
type Video struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID      string    `gorm:"type:varchar(36);index:idx_video_owner;not null" json:"owner_id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	VideoURL     string    `gorm:"type:varchar(512);not null" json:"video_url"`
	ThumbnailURL string    `gorm:"type:varchar(512);not null" json:"thumbnail_url"`
	Duration     float64   `gorm:"not null;default:0" json:"duration"`
	Views        int64     `gorm:"not null;default:0;index:idx_video_views" json:"views"`
	IsPublished  bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Video) TableName() string { return "videos" }
