package model

import "time"

// User 用户（频道）
type User struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Handle        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"handle"`
	DisplayName   string    `gorm:"type:varchar(128);not null" json:"display_name"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"-"`
	PasswordHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	AvatarURL     string    `gorm:"type:varchar(512)" json:"avatar_url"`
	CoverImageURL string    `gorm:"type:varchar(512)" json:"cover_image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 对外展示的用户摘要，不含凭据
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatar_url"`
}

// Summary 裁剪出公开字段
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, DisplayName: u.DisplayName, Handle: u.Handle, AvatarURL: u.AvatarURL}
}
