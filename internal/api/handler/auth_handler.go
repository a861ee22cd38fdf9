package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/college-table/pkg/dates"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/response"
)

type sendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  int    `json:"code" binding:"required"`
}

// SendCode 发送邮箱验证码
// @Summary 发送邮箱验证码（3 分钟有效）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body sendCodeRequest true "邮箱"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/auth/sendCode [post]
func (h *Handler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.InvalidParams, err)
		return
	}
	if err := h.verifyService.SendCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// VerifyCode 校验验证码，已注册用户返回 token
// @Summary 校验邮箱验证码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body verifyCodeRequest true "邮箱与验证码"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/auth/verifyCode [post]
func (h *Handler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.InvalidParams, err)
		return
	}
	res, err := h.verifyService.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	if res.User == nil {
		response.Success(c, gin.H{"registered": false})
		return
	}
	response.Success(c, gin.H{
		"registered": true,
		"token":      res.Token,
		"user":       dates.Handle(res.User),
	})
}
