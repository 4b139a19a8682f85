package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/orbit-backend/internal/db"
	"github.com/yungbote/orbit-backend/internal/handlers"
	"github.com/yungbote/orbit-backend/internal/logger"
	"github.com/yungbote/orbit-backend/internal/matching"
	"github.com/yungbote/orbit-backend/internal/middleware"
	"github.com/yungbote/orbit-backend/internal/platform/sendgrid"
	"github.com/yungbote/orbit-backend/internal/repos"
	"github.com/yungbote/orbit-backend/internal/server"
	"github.com/yungbote/orbit-backend/internal/services"
	"github.com/yungbote/orbit-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	signalPoolLimit := utils.GetEnvAsInt("SIGNAL_POOL_LIMIT", 200, log)
	signalMinScore := matching.DefaultMinScore
	if raw := utils.GetEnv("SIGNAL_MIN_SCORE", "", log); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn("Invalid SIGNAL_MIN_SCORE, using default", "value", raw, "default", signalMinScore)
		} else {
			signalMinScore = parsed
		}
	}
	port := utils.GetEnv("PORT", "8080", log)

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Database auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	userTokenRepo := repos.NewUserTokenRepo(theDB, log)
	codeRepo := repos.NewVerificationCodeRepo(theDB, log)
	profileRepo := repos.NewProfileRepo(theDB, log)
	crewRepo := repos.NewCrewRepo(theDB, log)
	missionRepo := repos.NewMissionRepo(theDB, log)
	signalRepo := repos.NewSignalRepo(theDB, log)
	podRepo := repos.NewPodRepo(theDB, log)
	contactRepo := repos.NewContactInfoRepo(theDB, log)

	// Mailer: without a SendGrid key the auth flow runs in demo mode and
	// accepts the bypass code.
	var mailer sendgrid.Client
	mailer, err = sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("SendGrid init failed, running in demo mode", "error", err)
		mailer = nil
	}

	// Redis cache for discover suggestions, optional.
	var cache *redis.Client
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Info("REDIS_ADDR not set, discover caching disabled")
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(
		theDB, log, userRepo, userTokenRepo, codeRepo, mailer,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	userService := services.NewUserService(theDB, log, userRepo, profileRepo)
	crewService := services.NewCrewService(theDB, log, crewRepo)
	missionService := services.NewMissionService(theDB, log, missionRepo)
	discoverService := services.NewDiscoverService(theDB, log, profileRepo, crewRepo, missionRepo, cache)
	signalService := services.NewSignalService(
		theDB, log, profileRepo, signalRepo, podRepo, contactRepo,
		signalMinScore, signalPoolLimit,
	)

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	crewHandler := handlers.NewCrewHandler(crewService)
	missionHandler := handlers.NewMissionHandler(missionService)
	discoverHandler := handlers.NewDiscoverHandler(discoverService)
	signalHandler := handlers.NewSignalHandler(signalService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:     authHandler,
		AuthMiddleware:  authMiddleware,
		UserHandler:     userHandler,
		CrewHandler:     crewHandler,
		MissionHandler:  missionHandler,
		DiscoverHandler: discoverHandler,
		SignalHandler:   signalHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
