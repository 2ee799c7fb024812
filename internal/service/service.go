// Package service 实现反应/订阅的切换引擎以及只读聚合查询。
package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/d60-Lab/videohub/internal/model"
)

var tracer = otel.Tracer("github.com/d60-Lab/videohub/internal/service")

// now 统一使用 UTC，保证 created_at 排序一致
var now = func() time.Time { return time.Now().UTC() }

// ToggleState 切换结果
type ToggleState string

const (
	StateAdded   ToggleState = "added"
	StateRemoved ToggleState = "removed"
)

// UserDirectory 用户摘要批量查询（UserRepository 或其缓存）
type UserDirectory interface {
	GetSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
}

// VideoWithOwner 视频及其作者摘要；作者已不存在时 Owner 为空
type VideoWithOwner struct {
	model.Video
	Owner *model.UserSummary `json:"owner"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage 把页码与页大小收敛到服务实际使用的范围
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func pageBounds(page, pageSize int) (offset, limit int) {
	page, pageSize = NormalizePage(page, pageSize)
	return (page - 1) * pageSize, pageSize
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// uniq 去重并保持首次出现的顺序
func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
