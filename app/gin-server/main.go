package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hiresphere/hiresphere/config"
	"github.com/hiresphere/hiresphere/internal/api/handlers"
	"github.com/hiresphere/hiresphere/internal/api/middleware"
	"github.com/hiresphere/hiresphere/internal/api/routes"
	"github.com/hiresphere/hiresphere/internal/cache"
	"github.com/hiresphere/hiresphere/internal/logger"
	"github.com/hiresphere/hiresphere/internal/notify"
	"github.com/hiresphere/hiresphere/internal/parser"
	"github.com/hiresphere/hiresphere/internal/providers/llm"
	pgrepo "github.com/hiresphere/hiresphere/internal/repositories/postgres"
	"github.com/hiresphere/hiresphere/internal/scoring"
	"github.com/hiresphere/hiresphere/internal/services"
	"github.com/hiresphere/hiresphere/internal/storage"
	"github.com/hiresphere/hiresphere/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	cfg := config.Load()
	ctx := context.Background()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	db := config.PostgresDB
	rdb := config.RedisClient

	candidates := pgrepo.NewCandidateRepo(db)
	applications := pgrepo.NewApplicationRepo(db)
	jobs := pgrepo.NewJobRepo(db)
	recruiters := pgrepo.NewRecruiterRepo(db)

	var store storage.Store
	var err error
	if cfg.GCSBucket != "" {
		store, err = storage.NewGCSStore(ctx, cfg.GCSBucket)
	} else {
		store, err = storage.NewLocalStore(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	chain, err := llm.NewChain(ctx, cfg.Providers, l)
	if err != nil {
		log.Fatalf("llm provider init error: %v", err)
	}
	if chain.Empty() {
		l.Warn("no AI provider configured, extraction and relevance run in offline mode")
	}

	fields := parser.NewFieldExtractor(chain, l)
	relevance := scoring.NewChainEstimator(chain, cache.NewRedisCache(rdb), l)
	engine := scoring.NewEngine(relevance, l)

	realtime := notify.NewRealtimePublisher(rdb, notify.DefaultGroup)
	channels := []notify.Channel{realtime}
	if cfg.RecruiterEmails {
		channels = append(channels, notify.NewEmailChannel(cfg.SMTP, recruiters))
	}
	if cfg.SlackWebhookURL != "" {
		channels = append(channels, notify.NewWebhookChannel(cfg.SlackWebhookURL))
	}
	dispatcher := notify.NewDispatcher(l, channels...)

	queue := workers.NewQueue(rdb)

	pipeline := services.NewPipelineService(
		candidates, applications, store, fields, engine,
		realtime, dispatcher, queue,
		services.PipelineConfig{
			ScoreThreshold: cfg.ScoreAlertThreshold,
			PortalURL:      cfg.PortalURL,
		},
		l,
	)
	appSvc := services.NewApplicationService(applications, candidates, jobs, engine, l)

	pool := &workers.ResumeWorkerPool{
		Redis:      rdb,
		Pipeline:   pipeline,
		NumWorkers: cfg.WorkerCount,
		Logger:     l,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("worker pool init error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Resume:      handlers.NewResumeHandler(candidates, store, queue),
		Application: handlers.NewApplicationHandler(appSvc),
		Job:         handlers.NewJobHandler(jobs),
		Admin:       handlers.NewAdminHandler(appSvc, pipeline),
		WS:          handlers.NewWSHandler(rdb, notify.DefaultGroup),
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
