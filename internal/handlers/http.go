package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/abhijitraijada/vaani-service/internal/config"
	"github.com/abhijitraijada/vaani-service/internal/middlewares"
	"github.com/abhijitraijada/vaani-service/internal/services"
)

// Handler 聚合全部领域服务，负责路由装配。
type Handler struct {
	cfg          config.Config
	userSvc      *services.UserService
	tokenSvc     *services.TokenService
	eventSvc     *services.EventService
	regSvc       *services.RegistrationService
	memberSvc    *services.MemberService
	hostSvc      *services.HostService
	assignSvc    *services.AssignmentService
	vehicleSvc   *services.VehicleService
	dashboardSvc *services.DashboardService
	logSvc       *services.LogService
	db           *gorm.DB
	rdb          *redis.Client
}

// New 构造 Handler，将各领域服务注入，用于后续路由注册与处理。
func New(cfg config.Config, us *services.UserService, ts *services.TokenService, es *services.EventService, rs *services.RegistrationService, ms *services.MemberService, hs *services.HostService, as *services.AssignmentService, vs *services.VehicleService, ds *services.DashboardService, ls *services.LogService, db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{
		cfg: cfg, userSvc: us, tokenSvc: ts, eventSvc: es, regSvc: rs,
		memberSvc: ms, hostSvc: hs, assignSvc: as, vehicleSvc: vs,
		dashboardSvc: ds, logSvc: ls, db: db, rdb: rdb,
	}
}

// RegisterRoutes 挂载全部端点：健康检查、指标与 /api/v1 业务路由。
func (h *Handler) RegisterRoutes(r *gin.Engine, metricsExposer gin.HandlerFunc) {
	r.GET("/healthz", h.healthz)
	r.GET("/metrics", metricsExposer)

	v1 := r.Group("/api/v1")

	// 账号与登录；登录按 IP 限流防口令爆破。
	users := v1.Group("/users")
	loginLimit := middlewares.RateLimit(h.rdb, "login", h.cfg.Limits.LoginPerMinute, h.cfg.Limits.Window,
		func(c *gin.Context) string { return c.ClientIP() })
	users.POST("/login", loginLimit, h.login)
	users.POST("", h.requireAuth(h.createUser))
	users.GET("/me", h.requireAuth(h.me))
	users.PUT("/me", h.requireAuth(h.updateMe))
	users.POST("/me/password", h.requireAuth(h.changePassword))

	events := v1.Group("/events")
	events.POST("", h.requireAuth(h.createEvent))
	events.GET("", h.listEvents)
	events.GET("/:event_id", h.getEvent)

	regs := v1.Group("/registrations")
	regs.POST("", h.createRegistration)
	regs.GET("/:registration_id", h.getRegistration)
	regs.GET("", h.requireAuth(h.listRegistrations))
	regs.GET("/search", h.searchParticipant)
	regs.GET("/:registration_id/members", h.membersByRegistration)

	members := v1.Group("/members")
	members.PUT("/:member_id", h.updateMember)
	members.PATCH("/:member_id/status", h.requireAuth(h.updateMemberStatus))
	members.GET("", h.requireAuth(h.membersByStatus))

	hosts := v1.Group("/hosts")
	hosts.POST("", h.requireAuth(h.createHost))
	hosts.GET("", h.requireAuth(h.listHosts))
	hosts.GET("/by-day", h.requireAuth(h.hostsByDay))
	hosts.GET("/:host_id", h.requireAuth(h.getHost))
	hosts.PUT("/:host_id", h.requireAuth(h.updateHost))
	hosts.DELETE("/:host_id", h.requireAuth(h.deleteHost))
	hosts.POST("/upload-csv", h.requireAuth(h.uploadHostsCSV))

	assigns := v1.Group("/host-assignments")
	assigns.POST("", h.requireAuth(h.createAssignment))
	assigns.POST("/bulk", h.requireAuth(h.bulkAssign))
	assigns.GET("", h.requireAuth(h.listAssignments))
	assigns.GET("/:assignment_id", h.requireAuth(h.getAssignment))
	assigns.PUT("/:assignment_id", h.requireAuth(h.updateAssignment))
	assigns.DELETE("/:assignment_id", h.requireAuth(h.deleteAssignment))

	vehicles := v1.Group("/vehicle-sharing")
	vehicles.POST("", h.requireAuth(h.createArrangement))
	vehicles.GET("", h.requireAuth(h.listArrangements))
	vehicles.GET("/:arrangement_id", h.requireAuth(h.getArrangement))
	vehicles.PUT("/:arrangement_id", h.requireAuth(h.updateArrangement))
	vehicles.DELETE("/:arrangement_id", h.requireAuth(h.deleteArrangement))

	v1.GET("/dashboard/event/:event_id", h.requireAuth(h.dashboard))
	v1.GET("/health/tables", h.requireAuth(h.healthTables))
}
