package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/college-table/internal/api/middleware"
	"github.com/d60-Lab/college-table/internal/service"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/response"
)

type sendMessageRequest struct {
	ChatroomID uint   `json:"chatroomId"`
	Content    string `json:"content"`
}

// SendMessage 发送私信并推送给对方
// @Summary 发送私信
// @Tags 聊天
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body sendMessageRequest true "消息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/chat/message/sendMessage [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.InvalidParams, err)
		return
	}
	chatroom, err := h.chatService.SendMessage(c.Request.Context(), middleware.UserID(c), service.SendMessageInput{
		ChatroomID: req.ChatroomID,
		Content:    req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"chatroom": chatroom})
}
