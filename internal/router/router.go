package router

import (
	"net/http"

	"Lee_Forum/internal/handler"
	"Lee_Forum/internal/middleware"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"
	"Lee_Forum/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 路由需要的外部依赖
type Deps struct {
	DB     *gorm.DB
	Signer *pkg.TokenSigner
	// Sessions 为 nil 时不做单点登录校验
	Sessions middleware.SessionStore
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
	Now      service.Clock
}

func InitRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))

	auditSvc := service.NewAuditService(d.DB, d.Now)
	reportSvc := service.NewReportService(d.DB, auditSvc)
	banSvc := service.NewBanService(d.DB, reportSvc, auditSvc,
		&mysql.PostRepository{DB: d.DB}, &mysql.CommentRepository{DB: d.DB}, d.Logger.Named("ban"), d.Now)
	gate := service.NewGate(banSvc)

	post := handler.NewPostHandler(service.NewPostService(d.DB, d.Now))
	comment := handler.NewCommentHandler(service.NewCommentService(d.DB))
	vote := handler.NewVoteHandler(service.NewPostVoteService(d.DB), service.NewCommentVoteService(d.DB))
	report := handler.NewReportHandler(reportSvc)
	ban := handler.NewBanHandler(banSvc)
	audit := handler.NewAuditHandler(auditSvc)

	auth := middleware.AuthMiddleware(d.Signer, d.Sessions)
	admin := middleware.RequireAdmin()
	gateFor := func(a service.Action) gin.HandlerFunc {
		return middleware.EnforceGate(gate, a, d.Logger)
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	// 帖子相关接口
	postGroup := r.Group("/api/post")
	postGroup.Use(auth)
	{
		postGroup.POST("/create", gateFor(service.ActionPost), post.CreatePost)
		postGroup.DELETE("/:id", post.DeletePost)
		postGroup.GET("/list/:id", post.ListByCategory)
	}

	// 评论相关接口
	commentGroup := r.Group("/api/comment")
	commentGroup.Use(auth)
	{
		commentGroup.POST("/create", gateFor(service.ActionComment), comment.CreateComment)
		commentGroup.DELETE("/:id", comment.DeleteComment)
	}

	// 投票和撤销投票都要过门禁
	voteGroup := r.Group("/api/vote")
	voteGroup.Use(auth, gateFor(service.ActionVote))
	{
		voteGroup.POST("/post/:id", vote.CastPost)
		voteGroup.DELETE("/post/:id", vote.RetractPost)
		voteGroup.POST("/comment/:id", vote.CastComment)
		voteGroup.DELETE("/comment/:id", vote.RetractComment)
	}

	// 举报：登录用户提交，管理员处理
	reportGroup := r.Group("/api/report")
	reportGroup.Use(auth)
	{
		reportGroup.POST("", report.File)
		reportGroup.GET("", admin, report.List)
		reportGroup.PUT("/:id/status", admin, report.UpdateStatus)
	}

	// 封禁状态公开查询
	r.GET("/api/ban/status/:user_id", ban.Status)

	banGroup := r.Group("/api/ban")
	banGroup.Use(auth, admin)
	{
		banGroup.POST("", ban.Create)
		banGroup.GET("", ban.List)
		banGroup.PATCH("/:id", ban.Update)
		banGroup.POST("/:id/revoke", ban.Revoke)
	}

	moderationGroup := r.Group("/api/moderation")
	moderationGroup.Use(auth, admin)
	{
		moderationGroup.GET("/actions", audit.List)
	}

	return r
}
