package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Avatara12345/Chat-Application/internal/config"
	"github.com/Avatara12345/Chat-Application/internal/dao/mysql"
	"github.com/Avatara12345/Chat-Application/internal/dao/redis"
	"github.com/Avatara12345/Chat-Application/internal/handler"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/logger"
	"github.com/Avatara12345/Chat-Application/internal/infrastructure/middleware"
	"github.com/Avatara12345/Chat-Application/internal/router"
	"github.com/Avatara12345/Chat-Application/internal/service"
	"github.com/Avatara12345/Chat-Application/pkg/util/jwt"
	"github.com/Avatara12345/Chat-Application/pkg/util/snowflake"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}
	cfg := config.GetConfig()

	if err := logger.Init(&cfg.LogConfig, gin.ReleaseMode); err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zap.L().Sync() }()

	jwt.Init(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTokenExpiry, cfg.JWTConfig.RefreshTokenExpiry)
	snowflake.Init(cfg.SnowflakeConfig.MachineID)

	mysql.Init()
	redis.Init()
	cache := redis.NewCacheService()

	svcs := service.NewServices(cfg, mysql.Repos, cache)
	svcs.Start()
	defer svcs.Close()

	handlers := handler.NewHandlers(svcs)
	if err := handler.InitTrans(); err != nil {
		zap.L().Fatal("validator translations init failed", zap.Error(err))
	}
	engine := router.NewRouter(handlers)
	if cfg.MainConfig.Https {
		engine.Use(middleware.TlsHandler(cfg.MainConfig.Host, cfg.MainConfig.Port))
	}

	addr := fmt.Sprintf("%s:%d", cfg.MainConfig.Host, cfg.MainConfig.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		zap.L().Info("server listening", zap.String("addr", addr))
		var err error
		if cfg.MainConfig.Https {
			err = srv.ListenAndServeTLS(cfg.MainConfig.CertFile, cfg.MainConfig.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("forced shutdown", zap.Error(err))
	}
}
