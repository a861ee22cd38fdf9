package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/college-table/internal/api/middleware"
	"github.com/d60-Lab/college-table/pkg/dates"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/response"
)

type acceptFriendRequest struct {
	Code int `json:"code" binding:"required"`
}

// CreateFriendRequest 生成好友码
// @Summary 生成好友码（重复调用覆盖旧码）
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/friend/createFriendRequest [post]
func (h *Handler) CreateFriendRequest(c *gin.Context) {
	code, err := h.friendService.RequestCode(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"code": code})
}

// AcceptFriendRequest 兑换好友码
// @Summary 兑换好友码
// @Tags 好友
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body acceptFriendRequest true "好友码"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/friend/acceptFriendRequest [post]
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	var req acceptFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.InvalidParams, err)
		return
	}
	friend, err := h.friendService.AcceptCode(c.Request.Context(), middleware.UserID(c), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"friend": dates.Handle(friend)})
}

// GetFriends 好友列表
// @Summary 好友列表
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/friend/getFriends [post]
func (h *Handler) GetFriends(c *gin.Context) {
	friends, err := h.friendService.ListFriends(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"friends": dates.Handle(friends)})
}
