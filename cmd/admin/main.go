package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vsm-server/internal/core/auth"
	"vsm-server/internal/core/cache"
	"vsm-server/internal/core/config"
	"vsm-server/internal/core/database"
	"vsm-server/internal/core/logger"
	"vsm-server/internal/core/server"
	"vsm-server/internal/domain"
	"vsm-server/internal/repo"
	"vsm-server/internal/service"
	"vsm-server/internal/transport/http/handler"
	"vsm-server/internal/transport/http/router"
	"vsm-server/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Event{},
			&domain.EventRegistration{},
			&domain.Post{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 后台写操作要踢掉用户端的首页缓存
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
	}

	userRepo := repo.NewUserRepo(db)
	eventRepo := repo.NewEventRepo(db)
	regRepo := repo.NewRegistrationRepo(db)
	postRepo := repo.NewPostRepo(db)

	seedAdmin(userRepo, cfg, log)

	authSvc := service.NewAuthService(userRepo, jwter, cfg.VSM.EmailDomain)
	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	regSvc := service.NewRegistrationService(regRepo, eventRepo)
	postSvc := service.NewPostService(postRepo)

	var inval handler.CacheInvalidator
	if c != nil {
		inval = c
	}
	router.Register(handler.NewUserHandler(authSvc, userSvc))
	router.Register(handler.NewEventHandler(eventSvc, cfg.VSM.UploadDir, inval))
	router.Register(handler.NewRegistrationHandler(regSvc))
	router.Register(handler.NewPostHandler(postSvc, cfg.VSM.UploadDir, inval))

	r := router.NewAdminEngine(log, jwter, router.Options{UploadDir: cfg.VSM.UploadDir})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("vsm admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("vsm admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("vsm admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("vsm admin api stopped gracefully")
}

// seedAdmin 空库时落一个初始管理员，否则后台无人能登录
func seedAdmin(users domain.UserRepository, cfg *config.Config, l *zap.Logger) {
	if cfg.VSM.SeedAdminEmail == "" || cfg.VSM.SeedAdminPassword == "" {
		return
	}
	n, err := users.Count()
	if err != nil {
		l.Warn("seed admin: count users failed", zap.Error(err))
		return
	}
	if n > 0 {
		return
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         "Administrator",
		Email:        cfg.VSM.SeedAdminEmail,
		PasswordHash: utils.HashPassword(cfg.VSM.SeedAdminPassword),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := users.Create(u); err != nil {
		l.Warn("seed admin: create failed", zap.Error(err))
		return
	}
	l.Info("seed admin created", zap.String("email", u.Email))
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
