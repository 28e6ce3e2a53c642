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

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer func() { _ = c.Close() }()
	}

	userRepo := repo.NewUserRepo(db)
	eventRepo := repo.NewEventRepo(db)
	regRepo := repo.NewRegistrationRepo(db)
	postRepo := repo.NewPostRepo(db)

	authSvc := service.NewAuthService(userRepo, jwter, cfg.VSM.EmailDomain)
	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	regSvc := service.NewRegistrationService(regRepo, eventRepo)
	postSvc := service.NewPostService(postRepo)

	var inval handler.CacheInvalidator
	if c != nil {
		inval = c
	}
	router.Register(handler.NewAuthHandler(authSvc, userSvc))
	router.Register(handler.NewEventHandler(eventSvc, cfg.VSM.UploadDir, inval))
	router.Register(handler.NewRegistrationHandler(regSvc))
	router.Register(handler.NewPostHandler(postSvc, cfg.VSM.UploadDir, inval))
	router.Register(handler.NewHomepageHandler(eventSvc, postSvc, c, time.Duration(cfg.VSM.HomepageCacheSec)*time.Second))

	r := router.NewAPIEngine(log, jwter, c, router.Options{
		UploadDir:      cfg.VSM.UploadDir,
		IdempotencyTTL: time.Duration(cfg.VSM.IdempotencyTTLMin) * time.Minute,
	})

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("vsm api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("vsm api start FAILED", zap.Error(err))
		}
	}()
	log.Info("vsm api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("vsm api stopped gracefully")
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
