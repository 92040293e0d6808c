package main

// @title           Vaani Event Service API
// @version         0.1.0
// @description     多日活动后台：报名、每日偏好、住宿家庭分配、拼车配对与活动看板。
// @schemes         http https
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/abhijitraijada/vaani-service/internal/config"
	"github.com/abhijitraijada/vaani-service/internal/handlers"
	"github.com/abhijitraijada/vaani-service/internal/metrics"
	"github.com/abhijitraijada/vaani-service/internal/middlewares"
	"github.com/abhijitraijada/vaani-service/internal/services"
	"github.com/abhijitraijada/vaani-service/internal/storage"
)

// main 为服务入口：加载配置、初始化日志/存储/服务、注册路由并启动 HTTP 服务。
func main() {
	// 配置结构化日志格式
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// 加载配置（以配置文件为主，配合内置默认值）
	cfg := config.Load()
	// 生产环境基线检查：禁止默认弱口令与默认密钥进入生产。
	if cfg.Env == "prod" {
		if cfg.MySQL.Password == "123456" || cfg.MySQL.Password == "password" || cfg.MySQL.Password == "" {
			log.Fatal("insecure mysql password in prod; configure mysql.password in config.yaml")
		}
		if cfg.Auth.JWTSecret == "dev-jwt-secret-change-me" || cfg.Auth.JWTSecret == "" {
			log.Fatal("insecure jwt secret in prod; set auth.jwt_secret")
		}
		if cfg.Bootstrap.InitialAdmin.Enable && (cfg.Bootstrap.InitialAdmin.Password == "123465" || cfg.Bootstrap.InitialAdmin.Password == "") {
			log.Fatal("insecure initial_admin.password in prod; disable bootstrap or set strong password")
		}
	}
	log.WithFields(log.Fields{
		"env":        cfg.Env,
		"http_addr":  cfg.HTTPAddr,
		"mysql_dsn":  cfg.MySQL.DSNMasked(),
		"redis_addr": cfg.Redis.Addr,
	}).Info("configuration loaded")

	// 初始化存储（MySQL + Redis）
	db, err := storage.InitMySQL(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect mysql")
	}
	defer storage.CloseMySQL(db)

	rdb, err := storage.InitRedis(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer func() { _ = rdb.Close() }()

	// 初始化各领域服务
	userSvc := services.NewUserService(db)
	tokenSvc := services.NewTokenService(cfg)
	eventSvc := services.NewEventService(db)
	regSvc := services.NewRegistrationService(db)
	memberSvc := services.NewMemberService(db)
	hostSvc := services.NewHostService(db)
	assignSvc := services.NewAssignmentService(db)
	vehicleSvc := services.NewVehicleService(db)
	dashboardSvc := services.NewDashboardService(db, rdb, cfg.Dashboard.CacheTTL)
	logSvc := services.NewLogService(db)

	// 首次启动引导：账号表为空时创建初始管理员。
	if cfg.Bootstrap.InitialAdmin.Enable {
		bootstrapAdmin(cfg, userSvc)
	}

	// HTTP 路由与中间件
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders(cfg))
	router.Use(metrics.Handler())

	// 装载 HTTP 处理器
	h := handlers.New(
		cfg, userSvc, tokenSvc, eventSvc, regSvc, memberSvc, hostSvc, assignSvc, vehicleSvc, dashboardSvc, logSvc, db, rdb,
	)
	h.RegisterRoutes(router, metrics.Exposer())

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// 优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	} else {
		log.Info("server stopped")
	}
}

// bootstrapAdmin 仅在账号表为空时创建初始管理员账号。
func bootstrapAdmin(cfg config.Config, userSvc *services.UserService) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cnt, err := userSvc.Count(ctx)
	if err != nil {
		log.WithError(err).Warn("bootstrap: count users failed")
		return
	}
	if cnt > 0 {
		return
	}
	ia := cfg.Bootstrap.InitialAdmin
	u, err := userSvc.Create(ctx, ia.PhoneNumber, ia.Password, ia.Name, ia.Email, storage.UserTypeAdmin)
	if err != nil {
		log.WithError(err).Warn("bootstrap: create initial admin failed")
		return
	}
	log.WithFields(log.Fields{"user_id": u.ID, "phone": ia.PhoneNumber}).Info("bootstrap: initial admin created")
}
