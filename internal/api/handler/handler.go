// Package handler 暴露反应、订阅与聚合查询的 HTTP 接口。
package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/videohub/internal/service"
	"github.com/d60-Lab/videohub/pkg/apperr"
)

// HealthCheck 依赖探活，返回 nil 表示健康
type HealthCheck func(ctx context.Context) error

type Handler struct {
	reactionService service.ReactionService
	relService      service.RelationshipService
	channelService  service.ChannelService
	historyService  service.HistoryService
	checks          map[string]HealthCheck
}

func New(
	reactions service.ReactionService,
	relations service.RelationshipService,
	channels service.ChannelService,
	history service.HistoryService,
	checks map[string]HealthCheck,
) *Handler {
	return &Handler{
		reactionService: reactions,
		relService:      relations,
		channelService:  channels,
		historyService:  history,
		checks:          checks,
	}
}

// Page 分页响应
type Page struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// pageQuery 解析 page/page_size，返回值与服务层实际分页一致
func pageQuery(c *gin.Context) (page, pageSize int, err error) {
	if page, err = intQuery(c, "page", 1); err != nil {
		return 0, 0, err
	}
	if pageSize, err = intQuery(c, "page_size", 0); err != nil {
		return 0, 0, err
	}
	page, pageSize = service.NormalizePage(page, pageSize)
	return page, pageSize, nil
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidArgument("%s must be an integer", name)
	}
	return n, nil
}
