package rest

import (
	"astrohunt/internal/cache"
	"astrohunt/internal/repository"
	"astrohunt/internal/service"
	"astrohunt/internal/transport/rest/handler"
	"astrohunt/internal/transport/rest/middleware"
	"astrohunt/internal/transport/ws"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	TeamService        *service.TeamService
	GameService        *service.GameService
	QuestionService    *service.QuestionService
	LeaderboardService *service.LeaderboardService
	UserRepo           repository.UserRepo
	LeaderboardCache   cache.LeaderboardCache
	WSHub              *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	teamHandler := handler.NewTeamHandler(c.TeamService, c.GameService, c.LeaderboardService)
	adminHandler := handler.NewAdminHandler(c.QuestionService, c.GameService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.UserRepo, c.LeaderboardCache)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (team feed carries its token in a query param)
	v1.HandleFunc("/ws/leaderboard", wsHandler.LeaderboardWS).Methods("GET")
	v1.HandleFunc("/ws/team", wsHandler.TeamWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Player routes (require auth)
	playerRoutes := v1.NewRoute().Subrouter()
	playerRoutes.Use(authMW.RequireAuth)

	playerRoutes.HandleFunc("/createTeam", teamHandler.CreateTeam).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/getTeamCodeToTeamLeader", teamHandler.GetTeamCode).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/joinTeam", teamHandler.JoinTeam).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/getCurrentQuestion", teamHandler.GetCurrentQuestion).Methods("GET", "OPTIONS")
	playerRoutes.HandleFunc("/submitQuestionCode", teamHandler.SubmitQuestionCode).Methods("POST", "OPTIONS")
	playerRoutes.HandleFunc("/getPlayerLeaderBoard", teamHandler.Leaderboard).Methods("GET", "OPTIONS")

	// Admin routes (require auth + admin role)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireAuth, authMW.RequireAdmin)

	adminRoutes.HandleFunc("/addLevel", adminHandler.AddLevel).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/addQuestion", adminHandler.AddQuestion).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/modifyQuestion/{questionId}", adminHandler.ModifyQuestion).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/deleteQuestion/{questionId}", adminHandler.DeleteQuestion).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/getAllLevels", adminHandler.GetAllLevels).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/getAllQuestionsByLevel/{levelId}", adminHandler.GetQuestionsByLevel).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/deleteLevel/{levelId}", adminHandler.DeleteLevel).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/startGame", adminHandler.StartGame).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
