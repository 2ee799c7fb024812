package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

// NewUser 创建用户的入参
type NewUser struct {
	Handle        string
	DisplayName   string
	Email         string
	Password      string
	AvatarURL     string
	CoverImageURL string
}

type UserRepository interface {
	Create(ctx context.Context, in NewUser) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByHandle(ctx context.Context, handle string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	// GetSummaries 批量加载用户摘要，缺失的 id 不出现在结果中
	GetSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, in NewUser) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.InvalidArgument("password: %v", err)
	}
	u := &model.User{
		ID:            uuid.New().String(),
		Handle:        strings.ToLower(strings.TrimSpace(in.Handle)),
		DisplayName:   in.DisplayName,
		Email:         strings.ToLower(in.Email),
		PasswordHash:  string(hash),
		AvatarURL:     in.AvatarURL,
		CoverImageURL: in.CoverImageURL,
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, apperr.FromStore("users.create", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, userErr("users.get_by_id", err)
	}
	return &u, nil
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("handle = ?", strings.ToLower(handle)).Take(&u).Error; err != nil {
		return nil, userErr("users.get_by_handle", err)
	}
	return &u, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, apperr.FromStore("users.exists", err)
	}
	return cnt > 0, nil
}

func (r *userRepository) GetSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error) {
	out := make(map[string]model.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []model.User
	if err := r.db.WithContext(ctx).
		Select("id", "handle", "display_name", "avatar_url").
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, apperr.FromStore("users.get_summaries", err)
	}
	for i := range users {
		out[users[i].ID] = users[i].Summary()
	}
	return out, nil
}

func userErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("channel")
	}
	return apperr.FromStore(op, err)
}
