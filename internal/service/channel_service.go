package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/repository"
)

// ChannelProfile 频道主页
type ChannelProfile struct {
	ChannelID            string `json:"channel_id"`
	DisplayName          string `json:"display_name"`
	Handle               string `json:"handle"`
	AvatarURL            string `json:"avatar_url"`
	CoverImageURL        string `json:"cover_image_url"`
	SubscriberCount      int64  `json:"subscriber_count"`
	SubscribedToCount    int64  `json:"subscribed_to_count"`
	IsSubscribedByViewer bool   `json:"is_subscribed_by_viewer"`
}

type ChannelService interface {
	// GetChannelProfile viewerID 为空表示匿名访问
	GetChannelProfile(ctx context.Context, channelID, viewerID string) (*ChannelProfile, error)
	GetChannelProfileByHandle(ctx context.Context, handle, viewerID string) (*ChannelProfile, error)
}

type channelService struct {
	users repository.UserRepository
	subs  repository.SubscriptionRepository
}

func NewChannelService(users repository.UserRepository, subs repository.SubscriptionRepository) ChannelService {
	return &channelService{users: users, subs: subs}
}

func (s *channelService) GetChannelProfile(ctx context.Context, channelID, viewerID string) (p *ChannelProfile, err error) {
	ctx, span := startSpan(ctx, "ChannelService.GetChannelProfile", attribute.String("channel.id", channelID))
	defer func() { endSpan(span, err) }()

	if err := checkID("channel_id", channelID, false); err != nil {
		return nil, err
	}
	if err := checkID("viewer_id", viewerID, true); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u, viewerID)
}

func (s *channelService) GetChannelProfileByHandle(ctx context.Context, handle, viewerID string) (p *ChannelProfile, err error) {
	ctx, span := startSpan(ctx, "ChannelService.GetChannelProfileByHandle", attribute.String("channel.handle", handle))
	defer func() { endSpan(span, err) }()

	handle = strings.ToLower(strings.TrimSpace(handle))
	if err := checkHandle(handle); err != nil {
		return nil, err
	}
	if err := checkID("viewer_id", viewerID, true); err != nil {
		return nil, err
	}
	u, err := s.users.GetByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, u, viewerID)
}

func (s *channelService) profile(ctx context.Context, u *model.User, viewerID string) (*ChannelProfile, error) {
	subscribers, err := s.subs.CountSubscribers(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	subscribedTo, err := s.subs.CountSubscriptions(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	var viewing bool
	if viewerID != "" {
		if viewing, err = s.subs.Exists(ctx, viewerID, u.ID); err != nil {
			return nil, err
		}
	}
	return &ChannelProfile{
		ChannelID:            u.ID,
		DisplayName:          u.DisplayName,
		Handle:               u.Handle,
		AvatarURL:            u.AvatarURL,
		CoverImageURL:        u.CoverImageURL,
		SubscriberCount:      subscribers,
		SubscribedToCount:    subscribedTo,
		IsSubscribedByViewer: viewing,
	}, nil
}
