package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/videohub/internal/api/middleware"
	"github.com/d60-Lab/videohub/pkg/response"
)

// GetChannelProfile 频道主页
// @Summary 频道主页
// @Tags 频道
// @Produce json
// @Param channel_id path string true "频道ID"
// @Success 200 {object} response.Response{data=service.ChannelProfile}
// @Failure 404 {object} response.Response
// @Router /api/v1/channels/{channel_id} [get]
func (h *Handler) GetChannelProfile(c *gin.Context) {
	p, err := h.channelService.GetChannelProfile(c.Request.Context(), c.Param("channel_id"), middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// GetChannelProfileByHandle 按 handle 查询频道主页
// @Summary 按 handle 查询频道
// @Tags 频道
// @Produce json
// @Param handle path string true "频道 handle"
// @Success 200 {object} response.Response{data=service.ChannelProfile}
// @Failure 404 {object} response.Response
// @Router /api/v1/channels/by-handle/{handle} [get]
func (h *Handler) GetChannelProfileByHandle(c *gin.Context) {
	p, err := h.channelService.GetChannelProfileByHandle(c.Request.Context(), c.Param("handle"), middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}
