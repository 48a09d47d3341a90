package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garagedesk/shop-scheduler/internal/cache"
	"github.com/garagedesk/shop-scheduler/internal/config"
	dbpkg "github.com/garagedesk/shop-scheduler/internal/db"
	"github.com/garagedesk/shop-scheduler/internal/logger"
	"github.com/garagedesk/shop-scheduler/internal/middleware"
	"github.com/garagedesk/shop-scheduler/internal/routes"
)

func main() {

	log := logger.New()
	defer log.Sync()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	denylist := cache.NewTokenDenylist(cfg)
	if err := denylist.Ping(context.Background()); err != nil {
		log.Warn("redis unreachable, token revocation disabled", zap.Error(err))
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, denylist, log)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
