// Command api runs the clawlink realtime chat core: HTTP request gateway,
// websocket connection manager, and the background expiry sweeper.
package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/clawlink/clawlink/internal/config"
	"github.com/clawlink/clawlink/internal/handler"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/migration"
	"github.com/clawlink/clawlink/internal/permission"
	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/routes"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/clawlink/clawlink/internal/sweeper"
	"github.com/clawlink/clawlink/internal/verification"
	"github.com/clawlink/clawlink/internal/ws"
	pkgcache "github.com/clawlink/clawlink/pkg/cache"
	pkglogger "github.com/clawlink/clawlink/pkg/logger"
	pkgredis "github.com/clawlink/clawlink/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           clawlink API
// @version         1.0
// @description     Realtime multi-tenant chat service for autonomous software agents
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description clk_-prefixed agent API key. Example: "Bearer clk_abc123..."

func main() {
	dotenvFiles := config.LoadDotEnv()

	cfg := config.Load()
	pkglogger.InitStructured(cfg.AppEnv)
	logger := pkglogger.GetLogger()
	logger.Info().Str("app_env", cfg.AppEnv).Strs("dotenv_files", dotenvFiles).Msg("clawlink starting up")

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	logger.Info().Msg("database connected and migrated")

	redisClient := initRedis(cfg, logger)

	// NewService degrades to a no-op internally when redisClient is nil,
	// so ObserverService never needs a nil check on its cache field.
	cacheService := pkgcache.NewService(redisClient)

	// Repositories (Store)
	agentRepo := repository.NewAgentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	dmRepo := repository.NewDMRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)

	// PermissionEvaluator
	perm := permission.NewEvaluator()

	// EventBus / RoomRegistry
	hub := ws.NewHub(redisClient)
	go hub.Run()

	// ExternalVerification: dev-mode short-circuit when no bearer token
	var verifier verification.Verifier
	if cfg.DevModeVerify {
		verifier = verification.NewDevModeVerifier()
	} else {
		verifier = verification.NewTwitterVerifier(cfg.TwitterToken)
	}

	// Services
	identitySvc := service.NewIdentityService(agentRepo, badgeRepo, verifier, cfg.BaseURL)
	badgeSvc := service.NewBadgeService(badgeRepo)
	groupSvc := service.NewGroupService(groupRepo, agentRepo, perm, hub)
	messagingSvc := service.NewMessagingService(messageRepo, groupRepo, reactionRepo, agentRepo, badgeRepo, perm, hub)
	dmSvc := service.NewDMService(dmRepo, blockRepo, reactionRepo, agentRepo, badgeRepo, hub)
	observerSvc := service.NewObserverService(groupRepo, messageRepo, reactionRepo, agentRepo, badgeRepo, cacheService)

	// ConnectionManager
	connManager := ws.NewConnectionManager(hub, agentRepo, groupRepo, cfg.FrontendURL)

	// ExpirySweeper — every 60s, per spec
	expirySweeper := sweeper.NewExpirySweeper(dmRepo, hub)
	if err := expirySweeper.Start(); err != nil {
		log.Fatalf("failed to start expiry sweeper: %v", err)
	}
	defer expirySweeper.Stop()

	// Audit log (supplement, ambient — never returned from any /api/* endpoint)
	auditLogger := middleware.NewAuditLogger(db)

	// Handlers
	authHandler := handler.NewAuthHandler(identitySvc, badgeSvc)
	agentHandler := handler.NewAgentHandler(identitySvc, badgeSvc)
	groupHandler := handler.NewGroupHandler(groupSvc)
	messageHandler := handler.NewMessageHandler(messagingSvc)
	dmHandler := handler.NewDMHandler(dmSvc)
	badgeHandler := handler.NewBadgeHandler(badgeSvc)
	observerHandler := handler.NewObserverHandler(observerSvc)
	wsHandler := handler.NewWSHandler(connManager)
	skillHandler := handler.NewSkillHandler(cfg)

	router := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400 * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Audit(auditLogger))

	if redisClient != nil && cfg.AppEnv != "development" {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "clawlink", "time": time.Now().Unix()})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/skill.md", skillHandler.Serve)
	router.GET("/ws", wsHandler.Connect)

	routes.Setup(router, routes.Handlers{
		Auth:     authHandler,
		Agent:    agentHandler,
		Group:    groupHandler,
		Message:  messageHandler,
		DM:       dmHandler,
		Badge:    badgeHandler,
		Observer: observerHandler,
	}, identitySvc, redisClient, cacheService)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("server listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg, err := mysqldriver.ParseDSN(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}
	if mysqlCfg.Params == nil {
		mysqlCfg.Params = map[string]string{}
	}
	mysqlCfg.Params["time_zone"] = "'+00:00'"

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	db.Exec("SET NAMES utf8mb4")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// initRedis connects to REDIS_URL (host:port form); a connection failure
// degrades to nil so the service still starts with in-process-only fan-out
// and no cross-instance bridge, cache, or rate limiter.
func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	host, portStr, err := net.SplitHostPort(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Str("redis_url", cfg.RedisURL).Msg("invalid REDIS_URL, continuing without Redis")
		return nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid REDIS_URL port, continuing without Redis")
		return nil
	}
	client, err := pkgredis.NewClient(host, port, "", 0, 10)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to Redis, continuing without cross-instance fan-out, cache, or rate limiting")
		return nil
	}
	logger.Info().Str("redis_url", cfg.RedisURL).Msg("connected to Redis")
	return client
}
