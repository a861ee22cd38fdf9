package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/college-table/internal/api/middleware"
	"github.com/d60-Lab/college-table/internal/service"
	"github.com/d60-Lab/college-table/pkg/dates"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/response"
)

type createPostRequest struct {
	BoardID     uint   `json:"boardId"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsAnonymous *bool  `json:"isAnonymous"`
}

type createCommentRequest struct {
	PostID      uint   `json:"postId"`
	Content     string `json:"content"`
	IsAnonymous *bool  `json:"isAnonymous"`
}

type deleteCommentRequest struct {
	CommentID uint `json:"commentId"`
}

// GetBoards 板块列表
// @Summary 获取本校 general 板块
// @Tags 板块
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/board/getBoards [post]
func (h *Handler) GetBoards(c *gin.Context) {
	boards, err := h.boardService.ListBoards(c.Request.Context(), middleware.CollegeID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"boards": dates.Handle(boards)})
}

// CreatePost 发帖
// @Summary 发帖
// @Tags 板块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/board/post/createPost [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.ParamsNotEnough, err)
		return
	}
	_, err := h.boardService.CreatePost(c.Request.Context(), middleware.UserID(c), middleware.CollegeID(c), service.CreatePostInput{
		BoardID:     req.BoardID,
		Title:       req.Title,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateComment 评论
// @Summary 评论帖子
// @Tags 板块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createCommentRequest true "评论"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/board/comment/createComment [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.ParamsNotEnough, err)
		return
	}
	_, err := h.boardService.CreateComment(c.Request.Context(), middleware.UserID(c), middleware.CollegeID(c), service.CreateCommentInput{
		PostID:      req.PostID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteComment 删除自己的评论
// @Summary 删除评论
// @Tags 板块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body deleteCommentRequest true "评论 ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/board/comment/deleteComment [post]
func (h *Handler) DeleteComment(c *gin.Context) {
	var req deleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, errcode.CommentNotFound, err)
		return
	}
	if err := h.boardService.DeleteComment(c.Request.Context(), middleware.UserID(c), req.CommentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
