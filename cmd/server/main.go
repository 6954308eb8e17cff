package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"libraryhub/docs"
	"libraryhub/internal/auth"
	"libraryhub/internal/cache"
	"libraryhub/internal/config"
	"libraryhub/internal/db"
	"libraryhub/internal/handler"
	"libraryhub/internal/logging"
	"libraryhub/internal/policy"
	"libraryhub/internal/repository"
	"libraryhub/internal/router"
	"libraryhub/internal/service"
)

// @title Library Management API
// @version 1.0
// @description Member registration, approval, circulation, inventory and fines behind a session cookie.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel)

	gormDB, err := db.Open(cfg)
	if err != nil {
		logger.Error("database init", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		db.Reset(gormDB)
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, running without cache and logout revocation", "addr", cfg.RedisAddr, "error", err)
	}

	store := repository.NewStore(gormDB)

	// Initialize auth components
	sessions := auth.NewSessionService(cfg.SessionSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	table := policy.Default().WithRoles(policy.ActionBorrow, cfg.BorrowRoles...)

	// Initialize services
	authService := service.NewAuthService(store.Users, sessions, tokenStore, cfg.AutoApproveStaff)
	catalogService := service.NewCatalogService(store, cacheClient, cfg.CatalogCacheTTL)
	circulationService := service.NewCirculationService(store, cacheClient, cfg.ReturnPolicy)
	memberService := service.NewMemberService(store, cacheClient, tokenStore, cfg.SessionTTL)
	fineService := service.NewFineService(store)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, sessions, tokenStore, table, router.Handlers{
		Auth:        handler.NewAuthHandler(authService, cfg.SessionTTL, cfg.SessionCookieSecure),
		Dashboard:   handler.NewDashboardHandler(catalogService, circulationService, fineService, table, cfg.SessionCookieSecure),
		Catalog:     handler.NewCatalogHandler(catalogService),
		Circulation: handler.NewCirculationHandler(catalogService, circulationService),
		Members:     handler.NewMemberHandler(memberService),
		Fines:       handler.NewFineHandler(fineService),
		Health:      handler.NewHealthHandler(db.NewHealth(gormDB)),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	logger.Info("swagger documentation", "url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", "addr", addr, "db_driver", cfg.DBDriver, "return_policy", cfg.ReturnPolicy)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
