// seed 写入本地演示数据：频道、视频、评论、社区动态以及若干订阅/点赞。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/config"
	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/repository"
	"github.com/d60-Lab/videohub/pkg/auth"
	"github.com/d60-Lab/videohub/pkg/database"
	"github.com/d60-Lab/videohub/pkg/logger"
)

func main() {
	users := flag.Int("users", 5, "number of channels to create")
	videos := flag.Int("videos", 3, "videos per channel")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("init database", zap.Error(err))
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migrate", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	contentRepo := repository.NewContentRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	tm := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	stamp := time.Now().Unix()
	created := make([]*model.User, 0, *users)
	for i := 0; i < *users; i++ {
		handle := fmt.Sprintf("demo%d_%d", i, stamp)
		u, err := userRepo.Create(ctx, repository.NewUser{
			Handle:      handle,
			DisplayName: fmt.Sprintf("Demo Channel %d", i),
			Email:       handle + "@example.com",
			Password:    "password",
			AvatarURL:   "https://cdn.example.com/avatars/" + handle + ".png",
		})
		if err != nil {
			logger.Error("create user", zap.String("handle", handle), zap.Error(err))
			os.Exit(1)
		}
		created = append(created, u)

		for j := 0; j < *videos; j++ {
			v := &model.Video{
				OwnerID:     u.ID,
				Title:       fmt.Sprintf("%s video %d", handle, j),
				VideoURL:    fmt.Sprintf("https://cdn.example.com/v/%s/%d.mp4", handle, j),
				Duration:    float64(60 * (j + 1)),
				Views:       int64(j * 10),
				IsPublished: true,
			}
			if err := videoRepo.Create(ctx, v); err != nil {
				logger.Error("create video", zap.Error(err))
				os.Exit(1)
			}
			if err := contentRepo.CreateComment(ctx, &model.Comment{OwnerID: u.ID, VideoID: &v.ID, Content: "first!"}); err != nil {
				logger.Error("create comment", zap.Error(err))
				os.Exit(1)
			}
			if _, err := reactionRepo.Create(ctx, repository.ReactionKey{
				Kind: model.ReactionLike, TargetType: model.TargetVideo, TargetID: v.ID, ActorID: u.ID,
			}, time.Now().UTC()); err != nil {
				logger.Error("create reaction", zap.Error(err))
				os.Exit(1)
			}
		}
		if err := contentRepo.CreatePost(ctx, &model.CommunityPost{OwnerID: u.ID, Title: "Hello from " + handle, Content: "welcome"}); err != nil {
			logger.Error("create post", zap.Error(err))
			os.Exit(1)
		}
	}

	// 每个频道订阅它后面的所有频道
	for i, sub := range created {
		for _, ch := range created[i+1:] {
			if _, err := subRepo.Create(ctx, sub.ID, ch.ID, time.Now().UTC()); err != nil {
				logger.Error("create subscription", zap.Error(err))
				os.Exit(1)
			}
		}
	}

	for _, u := range created {
		token, err := tm.Issue(u.ID, u.Handle)
		if err != nil {
			logger.Error("issue token", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\t%s\n", u.ID, u.Handle, token)
	}
}
