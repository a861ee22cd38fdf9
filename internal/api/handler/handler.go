package handler

import (
	"github.com/d60-Lab/college-table/internal/service"
)

// Handler HTTP 入口，只做参数绑定与响应转换
type Handler struct {
	boardService  service.BoardService
	friendService service.FriendService
	chatService   service.ChatService
	courseService service.CourseService
	verifyService service.VerifyService
}

func NewHandler(
	boardService service.BoardService,
	friendService service.FriendService,
	chatService service.ChatService,
	courseService service.CourseService,
	verifyService service.VerifyService,
) *Handler {
	return &Handler{
		boardService:  boardService,
		friendService: friendService,
		chatService:   chatService,
		courseService: courseService,
		verifyService: verifyService,
	}
}
