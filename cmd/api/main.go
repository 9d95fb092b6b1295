package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/agencypack/blog-backend/internal/config"
	"github.com/agencypack/blog-backend/internal/handler"
	"github.com/agencypack/blog-backend/internal/hooks"
	"github.com/agencypack/blog-backend/internal/middleware"
	"github.com/agencypack/blog-backend/internal/migration"
	"github.com/agencypack/blog-backend/internal/notification"
	"github.com/agencypack/blog-backend/internal/repository"
	"github.com/agencypack/blog-backend/internal/routes"
	"github.com/agencypack/blog-backend/internal/service"
	"github.com/agencypack/blog-backend/internal/ws"
	pkgcache "github.com/agencypack/blog-backend/pkg/cache"
	pkges "github.com/agencypack/blog-backend/pkg/elasticsearch"
	"github.com/agencypack/blog-backend/pkg/i18n"
	pkglogger "github.com/agencypack/blog-backend/pkg/logger"
	pkgredis "github.com/agencypack/blog-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Blog Backend API
// @version         1.0
// @description     Blog extension backend for the host CMS: posts, related-posts ranking, comment moderation and cache-tag invalidation
//
// @license.name    GPL-2.0-or-later
//
// @host            localhost:8080
// @BasePath        /api/v1

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.GetLogger().Info().
		Str("env", env).
		Strs("dotenv_files", dotenvFiles).
		Msg("starting blog-backend")

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("Redis unavailable, continuing without render cache")
		redisClient = nil
	}
	cacheService := pkgcache.NewService(redisClient)

	// Elasticsearch (optional)
	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("Elasticsearch unavailable, continuing without search index")
			esClient = nil
		}
	}

	// WebSocket hub for real-time blog events
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	// Notification fan-out
	notifier := notification.NewManager()
	notifier.Register(notification.LogListener{})
	notifier.Register(ws.NotificationListener{Hub: wsHub})

	// Repositories
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	authorRepo := repository.NewAuthorRepository(db)

	// Services
	var searcher service.Searcher
	var indexer service.SearchIndexer
	if esClient != nil {
		searcher = esClient
		indexer = esClient
	}
	postService := service.NewPostService(postRepo, cfg.Blog, searcher, cfg.Elasticsearch.PostIndex)
	relatedService := service.NewRelatedService(postRepo, cfg.Blog.StorageIDs)
	metaService := service.NewMetaService()
	policy := service.SettingsPolicy{
		Enabled:           cfg.Blog.Comments.Enabled,
		RequireModeration: cfg.Blog.Comments.RequireModeration,
	}
	commentService := service.NewCommentService(commentRepo, policy, notifier, cacheService)
	invalidationService := service.NewInvalidationService(db, cacheService, indexer, cfg.Elasticsearch.PostIndex)

	// Every tracked write flushes its cache tag
	if err := hooks.RegisterWriteHook(db, invalidationService); err != nil {
		log.Fatalf("Failed to register write hook: %v", err)
	}

	// i18n bundle
	i18nBundle := i18n.NewBundle(i18n.LocaleEn)
	for locale, msgs := range i18n.DefaultMessages() {
		i18nBundle.LoadMessages(locale, msgs)
	}
	if _, err := os.Stat("i18n"); err == nil {
		if err := i18nBundle.LoadDir("i18n"); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("i18n LoadDir failed")
		}
	}

	// Router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache", "Content-Language"},
		MaxAge:           86400 * time.Second,
	}))

	router.Use(middleware.I18n())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "blog-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, routes.Handlers{
		Posts:    handler.NewPostHandler(postService, relatedService, metaService, cfg.Blog),
		Comments: handler.NewCommentHandler(commentService, postService, i18nBundle),
		Taxonomy: handler.NewTaxonomyHandler(categoryRepo, tagRepo, authorRepo),
		WS:       handler.NewWSHandler(wsHub),
	}, cacheService)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.GetLogger().Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}
	return gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
