package api

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/api/handler"
	"github.com/d60-Lab/college-table/internal/cache"
	"github.com/d60-Lab/college-table/internal/notify"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/internal/service"
)

// Notifiers 推送与邮件通道。Async 用于失败不影响请求结果的推送
type Notifiers struct {
	Push   notify.PushSender
	Async  notify.PushSender
	Mailer notify.MailSender
}

// NewHandler 组装 repository -> service -> handler
func NewHandler(cfg *config.Config, db *gorm.DB, rdb *redis.Client, n Notifiers) *handler.Handler {
	userRepo := repository.NewUserRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	requestRepo := repository.NewFriendRequestRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatroomRepo := repository.NewChatroomRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	async := n.Async
	if async == nil {
		async = n.Push
	}

	guard := service.NewGuard(friendRepo, boardRepo, postRepo)
	boardCache := cache.NewBoardCache(rdb, cfg.Board.CacheTTL)
	codeStore := cache.NewCodeStore(rdb, cfg.Verification.TTL, cfg.Verification.MaxAttempts)

	return handler.NewHandler(
		service.NewBoardService(cfg.Board, boardRepo, postRepo, commentRepo, guard, async, boardCache),
		service.NewFriendService(friendRepo, requestRepo, userRepo, guard, async),
		service.NewChatService(chatroomRepo, n.Push),
		service.NewCourseService(cfg.Course, collegeRepo, courseRepo),
		service.NewVerifyService(cfg.JWT, codeStore, userRepo, n.Mailer),
	)
}
