// Package server assembles the HTTP surface: middleware, module routes,
// health and metrics endpoints.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"coursereviews/internal/cache"
	"coursereviews/internal/middleware"
	"coursereviews/internal/modules/moderation"
	"coursereviews/internal/modules/stats"
	"coursereviews/internal/repository"
)

type Deps struct {
	DB       *gorm.DB
	Verifier middleware.TokenVerifier
	Logger   *slog.Logger

	// optional
	Cache          *cache.StatsCache
	Hub            *moderation.Hub
	RequestTimeout time.Duration
	CORSOrigins    []string
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(d.Logger),
		middleware.ErrorLogger(),
		middleware.Metrics(),
		middleware.CORS(d.CORSOrigins),
	)
	if d.RequestTimeout > 0 {
		r.Use(middleware.Timeout(d.RequestTimeout))
	}

	reviewRepo := repository.NewReviewRepository(d.DB)
	classRepo := repository.NewClassRepository(d.DB)
	subjectRepo := repository.NewSubjectRepository(d.DB)
	studentRepo := repository.NewStudentRepository(d.DB)

	var (
		statsCache  stats.Cache
		invalidator moderation.Invalidator
		publisher   moderation.Publisher
	)
	if d.Cache != nil {
		statsCache = d.Cache
		invalidator = d.Cache
	}
	if d.Hub != nil {
		publisher = d.Hub
	}

	statsHandler := stats.NewHandler(stats.NewService(reviewRepo, classRepo, subjectRepo, statsCache))
	moderationHandler := moderation.NewHandler(
		moderation.NewService(reviewRepo, classRepo, invalidator, publisher),
		d.Hub,
	)

	r.GET("/health", healthHandler(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v2 := r.Group("/v2")
	{
		authed := v2.Group("")
		authed.Use(middleware.TokenAuth(d.Verifier, studentRepo))

		admin := authed.Group("")
		admin.Use(middleware.AdminOnly())

		statsHandler.RegisterRoutes(v2, authed)
		moderationHandler.RegisterRoutes(v2, admin)
	}

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
