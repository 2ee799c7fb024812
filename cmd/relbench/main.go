// relbench 压测切换引擎：同一元组上的并发切换结果分布，以及订阅聚合的查询延迟。
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/videohub/config"
	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/repository"
	"github.com/d60-Lab/videohub/internal/service"
	"github.com/d60-Lab/videohub/pkg/apperr"
	"github.com/d60-Lab/videohub/pkg/database"
	"github.com/d60-Lab/videohub/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	_ = logger.Init("warn", cfg.Log.Format)
	db := must(database.InitDB(cfg))
	if !cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			panic(err)
		}
	}

	N := envInt("N", 2000)
	CONC := envInt("CONC", 32)
	HOT := envInt("HOT", 200)
	PAGE := envInt("PAGE", 50)

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	reactions := service.NewReactionService(repository.NewReactionRepository(db), repository.NewContentRepository(db), videoRepo, userRepo)
	relations := service.NewRelationshipService(subRepo, userRepo, nil)

	ctx := context.Background()

	// u0 是大 V，其余用户都订阅它
	suffix := uuid.NewString()[:8]
	celeb := must(userRepo.Create(ctx, repository.NewUser{
		Handle: "celeb-" + suffix, DisplayName: "Celebrity", Email: "celeb-" + suffix + "@example.com", Password: "bench",
	}))
	video := &model.Video{OwnerID: celeb.ID, Title: "hot", VideoURL: "https://cdn.example.com/hot.mp4", IsPublished: true}
	if err := videoRepo.Create(ctx, video); err != nil {
		panic(err)
	}
	users := make([]model.User, N)
	batch := 500
	for i := 0; i < N; i++ {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Handle: "u" + id[:12], DisplayName: "u" + id[:8], Email: id + "@example.com", PasswordHash: "x"}
		if (i+1)%batch == 0 {
			sub := users[i+1-batch : i+1]
			_ = db.Create(&sub).Error
		}
	}
	if N%batch != 0 {
		sub := users[N-N%batch:]
		_ = db.Create(&sub).Error
	}

	// 1) 热点元组：CONC 个 goroutine 对同一 (like, video, actor) 共切换 HOT 次
	actor := users[0].ID
	var (
		mu                       sync.Mutex
		added, removed, conflict int
		failed                   int
		hotRecs                  []time.Duration
	)
	feed := make(chan struct{}, HOT)
	for i := 0; i < HOT; i++ {
		feed <- struct{}{}
	}
	close(feed)
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range feed {
				st := time.Now()
				res, err := reactions.ToggleReaction(ctx, model.ReactionLike, model.TargetVideo, video.ID, actor)
				d := time.Since(st)
				mu.Lock()
				hotRecs = append(hotRecs, d)
				switch {
				case err == nil && res.State == service.StateAdded:
					added++
				case err == nil:
					removed++
				case errors.Is(err, apperr.ErrConflict):
					conflict++
				default:
					failed++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	hotDur := time.Since(t0)
	var rows int64
	_ = db.Model(&model.Reaction{}).
		Where("kind = ? AND target_type = ? AND target_id = ? AND actor_id = ?", model.ReactionLike, model.TargetVideo, video.ID, actor).
		Count(&rows).Error

	// 2) N 个不同用户并发订阅同一频道
	subRecs := make([]time.Duration, 0, N)
	subCh := make(chan time.Duration, N)
	ids := make(chan int, N)
	for i := 0; i < N; i++ {
		ids <- i
	}
	close(ids)
	t1 := time.Now()
	for w := 0; w < CONC; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ids {
				st := time.Now()
				_, _ = relations.ToggleSubscription(ctx, users[i].ID, celeb.ID)
				subCh <- time.Since(st)
			}
		}()
	}
	wg.Wait()
	close(subCh)
	for d := range subCh {
		subRecs = append(subRecs, d)
	}
	subDur := time.Since(t1)

	// 3) 聚合查询
	q0 := time.Now()
	page, _ := relations.GetSubscribers(ctx, celeb.ID, 1, PAGE)
	listDur := time.Since(q0)
	q1 := time.Now()
	cnt, _ := subRepo.CountSubscribers(ctx, celeb.ID)
	countDur := time.Since(q1)

	fmt.Printf("N=%d, CONC=%d, HOT=%d, PAGE=%d\n", N, CONC, HOT, PAGE)
	fmt.Printf("Hot tuple toggles total: %v, added=%d removed=%d conflict=%d failed=%d final_rows=%d consistent=%v\n",
		hotDur, added, removed, conflict, failed, rows, int64(added-removed) == rows && rows <= 1)
	fmt.Printf("Hot tuple latency p50: %v, p95: %v, p99: %v\n", pct(hotRecs, 0.50), pct(hotRecs, 0.95), pct(hotRecs, 0.99))
	fmt.Printf("Subscribe total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		subDur, subDur/time.Duration(N), pct(subRecs, 0.50), pct(subRecs, 0.95), pct(subRecs, 0.99))
	fmt.Printf("Query subscribers(%d) latency: %v (got %d)\n", PAGE, listDur, len(page))
	fmt.Printf("Count subscribers latency: %v (count %d)\n", countDur, cnt)
}
