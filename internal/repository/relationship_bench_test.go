package repository

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/testutil"
)

func seedUsers(b *testing.B, s *testutil.Seeder, n int) []*model.User {
	users := make([]*model.User, n)
	for i := range users {
		users[i] = s.User("")
	}
	return users
}

func BenchmarkSubscriptionToggle(b *testing.B) {
	db := testutil.NewDB(b)
	repo := NewSubscriptionRepository(db)
	users := seedUsers(b, testutil.NewSeeder(b, db), 200)
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rnd.Intn(len(users))].ID
		to := users[rnd.Intn(len(users))].ID
		if from == to {
			continue
		}
		_, _, _ = repo.Toggle(ctx, from, to, time.Now())
	}
}

func BenchmarkSubscriberAggregates(b *testing.B) {
	db := testutil.NewDB(b)
	repo := NewSubscriptionRepository(db)
	seeder := testutil.NewSeeder(b, db)
	ctx := context.Background()

	// 构造：频道 c0 有 N 个订阅者，同时 c0 回关其中一半
	const N = 2000
	c0 := seeder.User("c0")
	ids := make([]string, 0, N)
	base := time.Now()
	for i := 0; i < N; i++ {
		u := seeder.User("")
		seeder.Subscribe(u, c0, base.Add(time.Duration(i)*time.Millisecond))
		if i%2 == 0 {
			seeder.Subscribe(c0, u, base)
		}
		ids = append(ids, u.ID)
	}
	page := ids[:50]

	b.ResetTimer()
	b.Run("ListSubscribers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.ListSubscribers(ctx, c0.ID, 0, 50)
		}
	})
	b.Run("CountSubscribersOf", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.CountSubscribersOf(ctx, page)
		}
	})
	b.Run("FollowedAmong", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repo.FollowedAmong(ctx, c0.ID, page)
		}
	})
}
