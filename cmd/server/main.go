package main

import (
	"astrohunt/internal/cache"
	"astrohunt/internal/config"
	"astrohunt/internal/media"
	"astrohunt/internal/repository"
	"astrohunt/internal/service"
	"astrohunt/internal/transport/rest"
	"astrohunt/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Media store
	mediaStore, err := media.NewMinioStore(ctx, media.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MediaPublicURL,
	})
	if err != nil {
		log.Fatal("Failed to connect to MinIO:", err)
	}
	log.Println("Connected to MinIO")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	teamRepo := repository.NewTeamRepo(db)
	levelRepo := repository.NewLevelRepo(db)
	questionRepo := repository.NewQuestionRepo(db)

	indexCtx, indexCancel := context.WithTimeout(ctx, 10*time.Second)
	defer indexCancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatal("Failed to ensure user indexes:", err)
	}
	if err := teamRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatal("Failed to ensure team indexes:", err)
	}
	if err := levelRepo.EnsureIndexes(indexCtx); err != nil {
		log.Fatal("Failed to ensure level indexes:", err)
	}

	// Initialize caches
	leaderboard := cache.NewLeaderboardCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	teamSvc := service.NewTeamService(userRepo, teamRepo, questionRepo)
	gameSvc := service.NewGameService(userRepo, teamRepo, levelRepo, questionRepo, leaderboard)
	questionSvc := service.NewQuestionService(levelRepo, questionRepo, mediaStore)
	leaderboardSvc := service.NewLeaderboardService(teamRepo)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	gameSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:        authSvc,
		TeamService:        teamSvc,
		GameService:        gameSvc,
		QuestionService:    questionSvc,
		LeaderboardService: leaderboardSvc,
		UserRepo:           userRepo,
		LeaderboardCache:   leaderboard,
		WSHub:              wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/register")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/createTeam")
		log.Println("  GET  /v1/getTeamCodeToTeamLeader")
		log.Println("  POST /v1/joinTeam")
		log.Println("  GET  /v1/getCurrentQuestion")
		log.Println("  POST /v1/submitQuestionCode")
		log.Println("  GET  /v1/getPlayerLeaderBoard")
		log.Println("  POST/PUT/DELETE /v1/admin/*")
		log.Println("  WS  /v1/ws/leaderboard")
		log.Println("  WS  /v1/ws/team")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
