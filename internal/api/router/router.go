package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rigops/backend/config"
	"rigops/backend/internal/api/handler"
	"rigops/backend/internal/api/middleware"
	"rigops/backend/internal/model"
	"rigops/backend/internal/repository"
	"rigops/backend/pkg/jwt"
	"rigops/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// 角色粗粒度限制由 RoleAuth 负责，归属与锁定等细粒度校验在 Service 层
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, repo *repository.Repository, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, repo.User))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 班报模块
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", h.Shift.List)
				shifts.POST("", middleware.RoleAuth(model.RoleSupervisor), h.Shift.Create)
				shifts.GET("/:id", h.Shift.Get)
				shifts.PUT("/:id", h.Shift.Update)    // 创建人或管理员（Service 层鉴权）
				shifts.DELETE("/:id", h.Shift.Delete) // 同上
				shifts.POST("/:id/submit", middleware.RoleAuth(model.RoleSupervisor), h.Shift.Submit)
				shifts.POST("/:id/decide", middleware.RoleAuth(model.RoleManager, model.RoleSupervisor), h.Shift.Decide)
				shifts.POST("/:id/submit-to-client", middleware.RoleAuth(model.RoleManager), h.Shift.SubmitToClient)
				shifts.POST("/:id/client-decide", middleware.RoleAuth(model.RoleClient), h.Shift.ClientDecide)
				shifts.GET("/:id/summary", h.Report.ShiftSummary)
			}

			// 预警模块
			alerts := authorized.Group("/alerts")
			{
				alerts.GET("", middleware.RoleAuth(model.RoleManager), h.Alert.List)
				alerts.POST("/:id/ack", middleware.RoleAuth(model.RoleManager), h.Alert.Acknowledge)
			}

			// 报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/daily", h.Report.DailyProgress)
				reports.GET("/dashboard", middleware.RoleAuth(model.RoleSupervisor, model.RoleManager), h.Report.Dashboard)
				reports.GET("/client-dashboard", middleware.RoleAuth(model.RoleClient), h.Report.ClientDashboard)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/shifts.csv", h.Export.ShiftsCSV)
				export.GET("/boq.xlsx", h.Export.MonthlyBOQ)
				export.GET("/shifts.ics", h.Export.ShiftCalendar)
			}
		}
	}

	return r
}
