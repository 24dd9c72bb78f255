package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/adaptlearn/backend/internal/assessment"
	"github.com/adaptlearn/backend/internal/auth"
	"github.com/adaptlearn/backend/internal/database"
	"github.com/adaptlearn/backend/internal/middleware"
	"github.com/adaptlearn/backend/internal/progress"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize services
	progressService := progress.NewService(progress.NewStore(db))
	assessmentService := assessment.NewService(assessment.NewStore(db))
	assessmentService.SetProgressService(progressService)

	// Initialize handlers
	authHandler := auth.NewHandler(db)
	assessmentHandler := assessment.NewHandler(assessmentService)
	progressHandler := progress.NewHandler(progressService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/assessment/{objectiveId}/next-question", assessmentHandler.NextQuestion).Methods("GET")
	protected.HandleFunc("/assessment/{objectiveId}/responses", assessmentHandler.SubmitResponse).Methods("POST")
	protected.HandleFunc("/assessment/{objectiveId}/estimate", assessmentHandler.GetEstimate).Methods("GET")
	protected.HandleFunc("/assessment/{objectiveId}/mastery", assessmentHandler.GetMastery).Methods("GET")
	protected.HandleFunc("/assessment/{objectiveId}/efficiency", assessmentHandler.GetEfficiency).Methods("GET")
	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")

	// Admin routes
	protected.HandleFunc("/admin/item-analysis/refresh", assessmentHandler.RefreshItemAnalysis).Methods("POST")
	protected.HandleFunc("/admin/weak-items", assessmentHandler.GetWeakItems).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Background item analysis
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go assessmentService.StartItemAnalysisWorker(ctx)

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
