package api

import (
	"net/http"
	"reflect"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/college-table/config"
	_ "github.com/d60-Lab/college-table/docs"
	"github.com/d60-Lab/college-table/internal/api/handler"
	"github.com/d60-Lab/college-table/internal/api/middleware"
)

func init() {
	// 校验错误里使用 json 字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// NewRouter 注册全部路由
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		gin.Recovery(),
		sentrygin.New(sentrygin.Options{Repanic: true}),
		middleware.RequestID(),
		middleware.AccessLog(),
		gzip.Gzip(gzip.DefaultCompression),
	)
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.App.Name))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/sendCode", h.SendCode)
		authGroup.POST("/verifyCode", h.VerifyCode)

		api.GET("/course/getCourse/:keyword", h.GetCourse)
	}

	protected := api.Group("", middleware.Auth(cfg.JWT.Secret))
	{
		protected.POST("/board/getBoards", h.GetBoards)
		protected.POST("/board/post/createPost", h.CreatePost)
		protected.POST("/board/comment/createComment", h.CreateComment)
		protected.POST("/board/comment/deleteComment", h.DeleteComment)

		protected.POST("/friend/createFriendRequest", h.CreateFriendRequest)
		protected.POST("/friend/acceptFriendRequest", h.AcceptFriendRequest)
		protected.POST("/friend/getFriends", h.GetFriends)

		protected.POST("/chat/message/sendMessage", h.SendMessage)

		protected.POST("/course/getCourses", h.GetCourses)
	}
	return r
}
