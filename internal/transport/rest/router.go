package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"formpilot/internal/cache"
	"formpilot/internal/service"
	"formpilot/internal/transport/rest/handler"
	"formpilot/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	FormService      *service.FormService
	AssistantService *service.AssistantService
	RetentionService *service.RetentionService
	RateLimiter      cache.RateLimitCache
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	formHandler := handler.NewFormHandler(c.FormService)
	assistantHandler := handler.NewAssistantHandler(c.AssistantService, c.FormService)
	settingsHandler := handler.NewSettingsHandler(c.RetentionService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	limitMW := middleware.NewRateLimitMiddleware(c.RateLimiter)

	r.Use(middleware.RequestID)
	r.Use(corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Auth routes (rate limited)
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(limitMW.Limit)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authRoutes.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Public routes
	api.HandleFunc("/forms/{formId}/submit", formHandler.Submit).Methods("POST", "OPTIONS")
	api.HandleFunc("/ai/conversational-next", assistantHandler.ConversationalNext).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Owner routes (require auth)
	ownerRoutes := api.NewRoute().Subrouter()
	ownerRoutes.Use(authMW.RequireUser)

	ownerRoutes.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/mine", formHandler.Mine).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}", formHandler.Update).Methods("PUT", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}", formHandler.Delete).Methods("DELETE", "OPTIONS")

	// Form view registered after /forms/mine so the literal path wins.
	// Public forms are open to anyone; private forms check the token.
	viewRoutes := api.NewRoute().Subrouter()
	viewRoutes.Use(authMW.OptionalUser)
	viewRoutes.HandleFunc("/forms/{formId}", formHandler.Get).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}/responses", formHandler.Responses).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/forms/{formId}/export", formHandler.Export).Methods("GET", "OPTIONS")

	ownerRoutes.HandleFunc("/ai/generate-form", assistantHandler.GenerateForm).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/ai/improve-question", assistantHandler.ImproveQuestion).Methods("POST", "OPTIONS")
	ownerRoutes.HandleFunc("/ai/insights/{formId}", assistantHandler.Insights).Methods("POST", "OPTIONS")

	ownerRoutes.HandleFunc("/settings/retention", settingsHandler.GetRetention).Methods("GET", "OPTIONS")
	ownerRoutes.HandleFunc("/settings/retention", settingsHandler.SetRetention).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
