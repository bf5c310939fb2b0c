package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/farmstand/marketplace/config"
	"github.com/farmstand/marketplace/internal/container"
	"github.com/farmstand/marketplace/internal/infrastructure/mongodb"
	"github.com/farmstand/marketplace/internal/interface/middleware"
	"github.com/farmstand/marketplace/internal/router"
	"github.com/farmstand/marketplace/pkg/helpers"
	"github.com/farmstand/marketplace/pkg/session"
	"github.com/farmstand/marketplace/pkg/upload"
	"github.com/farmstand/marketplace/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// MongoDB
	db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoMaxPool, cfg.MongoTimeout, cfg.MongoQueryTime)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mongodb.Disconnect(context.Background(), db) }()
	helpers.LogInfo(logger, "connected to mongodb", logrus.Fields{"db": cfg.MongoDB})

	// Redis backs sessions, flash messages and rate limiting
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// RabbitMQ is optional; the app degrades to no notifications without it
	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
	if err != nil {
		logger.Warnf("rabbitmq unavailable, notifications disabled: %v", err)
		pub = nil
	} else {
		defer pub.Close()
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(db)
	container.SetRedis(rdb)
	container.SetSessions(session.NewRedisStore(rdb, cfg.SessionTTL))
	container.SetTokens(helpers.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL))
	container.SetCookies(helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure))
	container.SetUploads(upload.NewSaver(cfg.UploadDir, cfg.Extensions()))
	container.SetRabbitPub(pub)
	// Elasticsearch is optional; without it product search is disabled
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Warnf("elasticsearch unavailable, product search disabled: %v", err)
		} else {
			container.SetES(es)
		}
	}

	// Make sure the static tree and the fallback profile images exist
	if err := upload.EnsureDirs(cfg.StaticDir, cfg.UploadDir); err != nil {
		log.Fatalf("failed to prepare static directories: %v", err)
	}
	if err := upload.EnsureDefaultImages(cfg.StaticDir, cfg.DefaultFarmerImg, cfg.DefaultProfileImg); err != nil {
		log.Fatalf("failed to write default images: %v", err)
	}

	// Gin engine and global middleware
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadSize
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.BodyLimit(cfg.MaxUploadSize))
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.Use(middleware.Session(container.GetSessions(), container.GetTokens(), container.GetCookies(), logger))

	r.Static("/static", cfg.StaticDir)

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
