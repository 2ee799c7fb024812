package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/videohub/internal/api/middleware"
	"github.com/d60-Lab/videohub/pkg/response"
)

// ToggleSubscription 订阅/取消订阅频道
// @Summary 切换订阅
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param channel_id path string true "频道ID"
// @Success 200 {object} response.Response{data=service.SubscriptionToggle}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/subscriptions/{channel_id} [post]
func (h *Handler) ToggleSubscription(c *gin.Context) {
	res, err := h.relService.ToggleSubscription(c.Request.Context(), middleware.ActorID(c), c.Param("channel_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListSubscribers 频道的订阅者
// @Summary 查询订阅者列表
// @Tags 关系链
// @Produce json
// @Param channel_id path string true "频道ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=Page}
// @Router /api/v1/channels/{channel_id}/subscribers [get]
func (h *Handler) ListSubscribers(c *gin.Context) {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.relService.GetSubscribers(c.Request.Context(), c.Param("channel_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, Page{Page: page, PageSize: pageSize, List: list})
}

// ListSubscriptions 某用户订阅的频道
// @Summary 查询订阅列表
// @Tags 关系链
// @Produce json
// @Param user_id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=Page}
// @Router /api/v1/users/{user_id}/subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.relService.GetSubscribedChannels(c.Request.Context(), c.Param("user_id"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, Page{Page: page, PageSize: pageSize, List: list})
}
