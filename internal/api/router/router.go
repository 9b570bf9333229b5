package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ilyas-exe/nfc-presence-backend-public/config"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/api/handler"
	"github.com/Ilyas-exe/nfc-presence-backend-public/internal/api/middleware"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/jwt"
	"github.com/Ilyas-exe/nfc-presence-backend-public/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.GET("/auth/me", h.Auth.Me)

			// 专业模块
			programs := authorized.Group("/programs")
			{
				programs.GET("", h.Program.List)
				programs.GET("/:id", h.Program.Get)
				programs.POST("", middleware.RoleAuth("admin"), h.Program.Create)
				programs.PUT("/:id", middleware.RoleAuth("admin"), h.Program.Update)
				programs.DELETE("/:id", middleware.RoleAuth("admin"), h.Program.Delete)
			}

			// 教室模块
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.List)
				rooms.GET("/:id", h.Room.Get)
				rooms.POST("", middleware.RoleAuth("admin"), h.Room.Create)
				rooms.PUT("/:id", middleware.RoleAuth("admin"), h.Room.Update)
				rooms.DELETE("/:id", middleware.RoleAuth("admin"), h.Room.Delete)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.GET("/:id", h.Course.Get)
				courses.POST("", middleware.RoleAuth("admin"), h.Course.Create)
				courses.PUT("/:id", middleware.RoleAuth("admin"), h.Course.Update)
				courses.DELETE("/:id", middleware.RoleAuth("admin"), h.Course.Delete)
			}

			// 学生模块
			students := authorized.Group("/students")
			{
				students.GET("", h.Student.List)
				students.GET("/:id", h.Student.Get)
				students.POST("", middleware.RoleAuth("admin"), h.Student.Create)
				students.PUT("/:id", middleware.RoleAuth("admin"), h.Student.Update)
				students.DELETE("/:id", middleware.RoleAuth("admin"), h.Student.Delete)
			}

			// 教师模块
			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Teacher.List)
				teachers.GET("/:id", h.Teacher.Get)
				teachers.POST("", middleware.RoleAuth("admin"), h.Teacher.Create)
				teachers.PUT("/:id", middleware.RoleAuth("admin"), h.Teacher.Update)
				teachers.DELETE("/:id", middleware.RoleAuth("admin"), h.Teacher.Delete)
			}

			// 排课模块
			sessions := authorized.Group("/sessions")
			{
				sessions.GET("", h.Session.List)
				sessions.GET("/:id", h.Session.Get)
				sessions.POST("", middleware.RoleAuth("admin"), h.Session.Create)
				sessions.PUT("/:id", middleware.RoleAuth("admin"), h.Session.Update)
				sessions.DELETE("/:id", middleware.RoleAuth("admin"), h.Session.Delete)
			}

			// 签到模块
			presences := authorized.Group("/presences")
			{
				presences.POST("/scan", h.Presence.Scan)
				// 会话维度的签到汇总（Service 层做管理员或授课教师鉴权）
				presences.GET("/session/:id", h.Presence.ListForSession)
				presences.GET("/teacher/pending", middleware.RoleAuth("teacher"), h.Presence.ListPending)
				presences.PUT("/:id/decision", middleware.RoleAuth("teacher"), h.Presence.Decide)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/presences/:id", h.Export.SessionPresences)
				export.GET("/sessions/ics", h.Export.TeacherCalendar)
			}

			// 实时通道
			authorized.GET("/live/sessions/:id", h.Live.Subscribe)
		}
	}

	return r
}
