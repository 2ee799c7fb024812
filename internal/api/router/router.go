// Package router 组装 gin 引擎与中间件链。
package router

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/videohub/docs"
	"github.com/d60-Lab/videohub/internal/api/handler"
	"github.com/d60-Lab/videohub/internal/api/middleware"
	"github.com/d60-Lab/videohub/pkg/auth"
	"github.com/d60-Lab/videohub/pkg/metrics"
)

type Options struct {
	Mode           string
	ServiceName    string
	RequestTimeout time.Duration
	Tracing        bool
	Sentry         bool
	Swagger        bool
}

// Setup 注册全部路由
func Setup(h *handler.Handler, tm *auth.TokenManager, limiter *middleware.RateLimiter, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(
		middleware.Metrics(),
		middleware.Logger(),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.Timeout(opts.RequestTimeout),
	)

	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	required := middleware.Auth(tm)
	optional := middleware.OptionalAuth(tm)
	limit := limiter.Handler()

	v1 := r.Group("/api/v1")
	{
		v1.POST("/likes/:target_type/:target_id", required, limit, h.ToggleLike)
		v1.POST("/dislikes/:target_type/:target_id", required, limit, h.ToggleDislike)
		v1.GET("/reactions/:target_type/:target_id", optional, h.GetReactionSummary)

		v1.POST("/subscriptions/:channel_id", required, limit, h.ToggleSubscription)

		channels := v1.Group("/channels")
		channels.GET("/by-handle/:handle", optional, h.GetChannelProfileByHandle)
		channels.GET("/:channel_id", optional, h.GetChannelProfile)
		channels.GET("/:channel_id/subscribers", h.ListSubscribers)

		users := v1.Group("/users")
		users.GET("/me/liked-videos", required, h.ListLikedVideos)
		users.GET("/me/history", required, h.GetWatchHistory)
		users.GET("/:user_id/subscriptions", h.ListSubscriptions)

		videos := v1.Group("/videos")
		videos.GET("/trending", h.GetTrending)
		videos.POST("/:video_id/views", optional, limit, h.RecordView)
	}
	return r
}
