package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coedit/coedit/handlers"
	"github.com/coedit/coedit/internal/archive"
	"github.com/coedit/coedit/internal/config"
	"github.com/coedit/coedit/internal/database"
	docrepo "github.com/coedit/coedit/internal/document/repository"
	"github.com/coedit/coedit/internal/edits"
	"github.com/coedit/coedit/internal/oidc"
	"github.com/coedit/coedit/internal/presence"
	syncsvc "github.com/coedit/coedit/internal/sync"
	"github.com/coedit/coedit/internal/users"
	"github.com/coedit/coedit/pkg/logger"
	"github.com/coedit/coedit/pkg/metrics"
	"github.com/coedit/coedit/pkg/middleware"
)

var startTime = time.Now()

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	logger.Init(cfg.Server.LogLevel)
	defer logger.Log.Sync()

	ctx := context.Background()

	// Redis is optional: presence falls back to the in-memory tracker
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Sugar.Warnf("redis unreachable (%s:%s), presence stays in memory: %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}

	// Mongo is optional too; without it every store is in-memory
	var docs docrepo.Repository
	var editLog edits.Repository
	var profileRepo users.Repository
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		client, err := database.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Sugar.Fatalf("mongo connect failed: %v", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()
		mongoClient = client
		db := client.Database(cfg.MongoDB.Database)
		docs = docrepo.NewMongoRepo(db.Collection("documents"))
		editLog = edits.NewMongoRepo(db.Collection("document_edits"))
		profileRepo = users.NewMongoRepo(db.Collection("users"))
		logger.Sugar.Infof("using MongoDB storage (db=%s)", cfg.MongoDB.Database)
	} else {
		docs = docrepo.NewMemoryRepo()
		editLog = edits.NewMemoryRepo()
		profileRepo = users.NewMemoryRepo()
		logger.Sugar.Warn("MONGODB_URI not set, using in-memory storage")
	}

	var presenceRepo presence.Repository
	if redisClient != nil {
		presenceRepo = presence.NewRedisRepo(redisClient, "presence:")
		logger.Sugar.Info("using Redis presence tracker")
	} else {
		presenceRepo = presence.NewMemoryRepo()
	}

	profiles := users.NewService(profileRepo)
	svc := syncsvc.NewService(docs, editLog, presenceRepo, profiles, syncsvc.NewNotifier())

	if cfg.Archive.Enabled {
		archiver, err := archive.NewHistoryArchiver(&archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			UseSSL:    cfg.Archive.UseSSL,
			Bucket:    cfg.Archive.Bucket,
		})
		if err != nil {
			logger.Sugar.Warnf("history archive disabled: %v", err)
		} else {
			svc.SetArchiver(archiver)
			logger.Sugar.Infof("history archive enabled (bucket=%s)", cfg.Archive.Bucket)
		}
	}

	if cfg.Presence.SweepEnabled {
		svc.StartPresenceSweeper(ctx, cfg.Presence.SweepInterval, cfg.Presence.SweepMaxIdle)
	}

	verifier := buildVerifier(ctx, cfg)
	if verifier == nil {
		logger.Sugar.Fatalf("no token verifier configured: set OIDC_ISSUER, JWT_SECRET or ALLOW_INSECURE_TOKEN")
	}

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := gin.H{}
		if mongoClient != nil {
			ok := mongoClient.Ping(c.Request.Context(), nil) == nil
			deps["mongo"] = ok
			ready = ready && ok
		}
		if redisClient != nil {
			ok := redisClient.Ping(c.Request.Context()).Err() == nil
			deps["redis"] = ok
			ready = ready && ok
		}
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": ready, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", middleware.AuthMiddleware(verifier), handlers.ProfileSync(profiles))
	handlers.NewDocumentHandler(svc, profiles).Register(api)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Sugar.Infof("starting coedit sync service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Sugar.Fatalf("server failed: %v", err)
	}
}

// buildVerifier picks the strongest configured verifier: OIDC, then shared
// HMAC secret, then (opt-in only) signature-less parsing for local dev.
func buildVerifier(ctx context.Context, cfg *config.Config) middleware.Verifier {
	if cfg.Auth.OIDCIssuer != "" && cfg.Auth.OIDCClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			logger.Sugar.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			logger.Sugar.Infof("using OIDC verifier (issuer=%s)", cfg.Auth.OIDCIssuer)
			return ver
		}
	}
	if cfg.Auth.JWTSecret != "" {
		logger.Sugar.Info("using HMAC JWT verifier")
		return oidc.NewHMACVerifier(cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AllowInsecure {
		logger.Sugar.Warn("using insecure token verifier (development only)")
		return oidc.NewInsecureVerifier()
	}
	return nil
}
