package model

import "time"

// Comment 评论，挂在视频或社区动态下
type Comment struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID         string    `gorm:"type:varchar(36);not null" json:"owner_id"`
	VideoID         *string   `gorm:"type:varchar(36);index" json:"video_id,omitempty"`
	CommunityPostID *string   `gorm:"type:varchar(36);index" json:"community_post_id,omitempty"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

// CommunityPost 频道社区动态
type CommunityPost struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);index:idx_post_owner;not null" json:"owner_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	ImageURL  string    `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CommunityPost) TableName() string { return "community_posts" }
