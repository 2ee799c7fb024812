package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/videohub/internal/api/middleware"
	"github.com/d60-Lab/videohub/pkg/response"
)

// GetWatchHistory 当前用户的观看历史
// @Summary 观看历史
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=Page}
// @Router /api/v1/users/me/history [get]
func (h *Handler) GetWatchHistory(c *gin.Context) {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.historyService.GetWatchHistory(c.Request.Context(), middleware.ActorID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, Page{Page: page, PageSize: pageSize, List: list})
}

// RecordView 记录一次播放
// @Summary 记录播放
// @Tags 视频
// @Produce json
// @Param video_id path string true "视频ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/videos/{video_id}/views [post]
func (h *Handler) RecordView(c *gin.Context) {
	if err := h.historyService.RecordView(c.Request.Context(), c.Param("video_id"), middleware.ActorID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetTrending 按播放量排序的视频
// @Summary 热门视频
// @Tags 视频
// @Produce json
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]service.VideoWithOwner}
// @Router /api/v1/videos/trending [get]
func (h *Handler) GetTrending(c *gin.Context) {
	limit, err := intQuery(c, "limit", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.historyService.GetTrending(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
