package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/perci-aceron/expensetracker-backend/internal/auth"
	"github.com/perci-aceron/expensetracker-backend/internal/config"
	database "github.com/perci-aceron/expensetracker-backend/internal/db"
	emailService "github.com/perci-aceron/expensetracker-backend/internal/email"
	"github.com/perci-aceron/expensetracker-backend/internal/finance/application"
	"github.com/perci-aceron/expensetracker-backend/internal/finance/infrastructure"
	"github.com/perci-aceron/expensetracker-backend/internal/finance/interfaces"
	"github.com/perci-aceron/expensetracker-backend/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	authService        auth.Service
	userHandler        *user.Handler
	transactionHandler *interfaces.TransactionHandler
	categoryHandler    *interfaces.CategoryHandler
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	transactionHandler *interfaces.TransactionHandler,
	categoryHandler *interfaces.CategoryHandler,
) *Server {
	return &Server{
		authHandler:        authHandler,
		authService:        authService,
		userHandler:        userHandler,
		transactionHandler: transactionHandler,
		categoryHandler:    categoryHandler,
		router:             http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()

	router := http.NewServeMux()

	// Public routes
	router.Handle("POST /api/auth/register", http.HandlerFunc(s.userHandler.HandleRegister))
	router.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	router.Handle("POST /api/auth/refresh", http.HandlerFunc(s.authHandler.HandleRefresh))
	router.Handle("GET /api/users/verify/{verificationToken}", http.HandlerFunc(s.userHandler.HandleVerifyEmail))
	router.Handle("POST /api/users/verify", http.HandlerFunc(s.userHandler.HandleResendVerifyEmail))
	router.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	router.Handle("GET /api/auth/logout", protect(http.HandlerFunc(s.authHandler.HandleLogout)))
	router.Handle("GET /api/users/current", protect(http.HandlerFunc(s.userHandler.HandleCurrentUser)))
	router.Handle("PATCH /api/users/info", protect(http.HandlerFunc(s.userHandler.HandleUpdateInfo)))
	router.Handle("PATCH /api/users/avatar", protect(http.HandlerFunc(s.userHandler.HandleUpdateAvatar)))
	router.Handle("DELETE /api/users/avatar", protect(http.HandlerFunc(s.userHandler.HandleDeleteAvatar)))

	// CATEGORIES API
	router.Handle("POST /api/categories", protect(http.HandlerFunc(s.categoryHandler.CreateCategory)))
	router.Handle("GET /api/categories", protect(http.HandlerFunc(s.categoryHandler.GetCategories)))
	router.Handle("PATCH /api/categories/{id}", protect(http.HandlerFunc(s.categoryHandler.UpdateCategory)))
	router.Handle("DELETE /api/categories/{id}", protect(http.HandlerFunc(s.categoryHandler.DeleteCategory)))

	// TRANSACTIONS API
	router.Handle("POST /api/transactions", protect(http.HandlerFunc(s.transactionHandler.CreateTransaction)))
	router.Handle("GET /api/transactions/{type}", protect(http.HandlerFunc(s.transactionHandler.GetTransactionsByTypeAndDate)))
	router.Handle("PATCH /api/transactions/{type}/{id}", protect(http.HandlerFunc(s.transactionHandler.UpdateTransaction)))
	router.Handle("DELETE /api/transactions/{type}/{id}", protect(http.HandlerFunc(s.transactionHandler.DeleteTransaction)))

	router.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = router
}

func StartReconcileScheduler(reconciler *application.TotalsReconciler, schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, reconciler.Run)
	if err != nil {
		return err
	}
	c.Start()
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Missing configuration, update to start server: %v", err)
	}

	dbService, err := database.NewDBService(cfg.ConnectionString())
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	newEmailService := emailService.NewEmailService(emailService.Config{
		From:     cfg.Email.Address,
		Password: cfg.Email.Password,
		SMTPHost: cfg.Email.SMTPHost,
		SMTPPort: cfg.Email.SMTPPort,
		UseMock:  cfg.Email.UseMock,
	})

	userRepo := user.NewUserRepository(dbService.DB)
	userService := user.NewUserService(userRepo, newEmailService, cfg.App.BaseURL)

	categoryRepo := infrastructure.NewCategoryRepository(dbService.DB)
	categoryService := application.NewCategoryService(categoryRepo)
	userHandler := user.NewHandler(userService, categoryService)

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(userService, jwtManager)
	authHandler := auth.NewHandler(authService, userHandler)

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	transactionService := application.NewTransactionService(transactionRepo, categoryService)
	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)
	categoryHandler := interfaces.NewCategoryHandler(categoryService, respondJSON, respondError)

	server := NewServer(authHandler, authService, userHandler, transactionHandler, categoryHandler)
	server.RegisterRoutes()

	reconciler := application.NewTotalsReconciler(transactionRepo)
	if err := StartReconcileScheduler(reconciler, cfg.Reconcile.Schedule); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	handler := loggingMiddleware(server.router)
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Printf("Server starting on port %d...", cfg.App.Port)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
