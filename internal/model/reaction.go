package model

import "time"

// ReactionKind 点赞 / 点踩
type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool { return k == ReactionLike || k == ReactionDislike }

// TargetType 反应挂载的实体类型
type TargetType string

const (
	TargetVideo         TargetType = "video"
	TargetComment       TargetType = "comment"
	TargetCommunityPost TargetType = "community_post"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetVideo, TargetComment, TargetCommunityPost:
		return true
	}
	return false
}

// Reaction 用户对某个目标的一次反应
type Reaction struct {
	ID         string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind       ReactionKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_reaction_tuple,priority:1" json:"kind"`
	TargetType TargetType   `gorm:"type:varchar(32);not null;uniqueIndex:idx_reaction_tuple,priority:2;index:idx_reaction_target,priority:1" json:"target_type"`
	TargetID   string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_reaction_tuple,priority:3;index:idx_reaction_target,priority:2" json:"target_id"`
	ActorID    string       `gorm:"type:varchar(36);not null;uniqueIndex:idx_reaction_tuple,priority:4;index:idx_reaction_actor" json:"actor_id"`
	// 唯一键 idx_reaction_tuple = (kind, target_type, target_id, actor_id)
	CreatedAt time.Time `json:"created_at"`
}

func (Reaction) TableName() string { return "reactions" }
