package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/videohub/internal/api/middleware"
	"github.com/d60-Lab/videohub/internal/model"
	"github.com/d60-Lab/videohub/pkg/response"
)

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param target_type path string true "目标类型" Enums(video, comment, community_post)
// @Param target_id path string true "目标ID"
// @Success 200 {object} response.Response{data=service.ReactionToggle}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/likes/{target_type}/{target_id} [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	h.toggleReaction(c, model.ReactionLike)
}

// ToggleDislike 点踩/取消点踩
// @Summary 切换点踩
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param target_type path string true "目标类型" Enums(video, comment, community_post)
// @Param target_id path string true "目标ID"
// @Success 200 {object} response.Response{data=service.ReactionToggle}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/dislikes/{target_type}/{target_id} [post]
func (h *Handler) ToggleDislike(c *gin.Context) {
	h.toggleReaction(c, model.ReactionDislike)
}

func (h *Handler) toggleReaction(c *gin.Context, kind model.ReactionKind) {
	res, err := h.reactionService.ToggleReaction(c.Request.Context(), kind,
		model.TargetType(c.Param("target_type")), c.Param("target_id"), middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetReactionSummary 目标的点赞/点踩统计
// @Summary 反应统计
// @Tags 互动
// @Produce json
// @Param target_type path string true "目标类型" Enums(video, comment, community_post)
// @Param target_id path string true "目标ID"
// @Success 200 {object} response.Response{data=service.ReactionSummary}
// @Failure 404 {object} response.Response
// @Router /api/v1/reactions/{target_type}/{target_id} [get]
func (h *Handler) GetReactionSummary(c *gin.Context) {
	sum, err := h.reactionService.GetReactionSummary(c.Request.Context(),
		model.TargetType(c.Param("target_type")), c.Param("target_id"), middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, sum)
}

// ListLikedVideos 当前用户点赞过的视频
// @Summary 我点赞的视频
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=Page}
// @Router /api/v1/users/me/liked-videos [get]
func (h *Handler) ListLikedVideos(c *gin.Context) {
	page, pageSize, err := pageQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.reactionService.ListLikedVideos(c.Request.Context(), middleware.ActorID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, Page{Page: page, PageSize: pageSize, List: list})
}
