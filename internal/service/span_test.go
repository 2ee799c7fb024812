package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/internal/testutil"
)

var (
	recorderOnce sync.Once
	recorder     *tracetest.SpanRecorder
)

// spans 全局 provider 只会被委托一次，整个测试进程共用一个 recorder
func spans() *tracetest.SpanRecorder {
	recorderOnce.Do(func() {
		recorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	})
	return recorder
}

func endedSpan(t *testing.T, rec *tracetest.SpanRecorder, name, key, value string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range rec.Ended() {
		if s.Name() != name {
			continue
		}
		for _, kv := range s.Attributes() {
			if string(kv.Key) == key && kv.Value.AsString() == value {
				return s
			}
		}
	}
	t.Fatalf("span %s with %s=%s not recorded", name, key, value)
	return nil
}

func TestReadPathsAreTraced(t *testing.T) {
	rec := spans()
	f := newFixture(t)
	ctx := testutil.Ctx(t)
	owner, fan := f.seed.User(""), f.seed.User("")
	v := f.seed.Video(owner, "v", 0)

	_, err := f.reaction.ToggleReaction(ctx, model.ReactionLike, model.TargetVideo, v.ID, fan.ID)
	require.NoError(t, err)

	sum, err := f.reaction.GetReactionSummary(ctx, model.TargetVideo, v.ID, fan.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, sum.Likes)
	s := endedSpan(t, rec, "ReactionService.GetReactionSummary", "target.id", v.ID)
	assert.Equal(t, codes.Unset, s.Status().Code)

	liked, err := f.reaction.ListLikedVideos(ctx, fan.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	endedSpan(t, rec, "ReactionService.ListLikedVideos", "user.id", fan.ID)
}

func TestReadPathSpanRecordsError(t *testing.T) {
	rec := spans()
	f := newFixture(t)
	ctx := testutil.Ctx(t)
	owner := f.seed.User("")
	v := f.seed.Video(owner, "v", 0)

	_, err := f.reaction.GetReactionSummary(ctx, model.TargetComment, v.ID, "")
	require.Error(t, err)
	s := endedSpan(t, rec, "ReactionService.GetReactionSummary", "target.id", v.ID)
	assert.Equal(t, codes.Error, s.Status().Code)
}
