package handler

import (
	"net/http"

	"book-reader/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates the gateway router: one endpoint per session
// operation, plus the collaborator glue (auth, catalog, preferences).
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"book-reader"}`))
	}).Methods("GET")

	// Initialize handlers
	sessionHandler := NewSessionHandler(container.SessionService, container.Logger)
	authHandler := NewAuthHandler(container.AuthService, container.Logger)
	catalogHandler := NewCatalogHandler(container.CatalogService, container.Logger)
	preferenceHandler := NewPreferenceHandler(container.PreferenceService, container.Logger)

	api.Use(RecoveryMiddleware(container.Logger))
	api.Use(LoggingMiddleware(container.Logger))

	// Reader session routes
	api.HandleFunc("/session/open", sessionHandler.Open).Methods("POST")
	api.HandleFunc("/session/next", sessionHandler.Next).Methods("POST")
	api.HandleFunc("/session/prev", sessionHandler.Prev).Methods("POST")
	api.HandleFunc("/session/close", sessionHandler.Close).Methods("POST")
	api.HandleFunc("/session", sessionHandler.State).Methods("GET")

	// Auth routes
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/profile", authHandler.Profile).Methods("GET")

	// Catalog routes
	api.HandleFunc("/catalog", catalogHandler.List).Methods("GET")

	// Preference routes
	api.HandleFunc("/preferences", preferenceHandler.Get).Methods("GET")
	api.HandleFunc("/preferences", preferenceHandler.Update).Methods("PUT")

	// Configure CORS; the view layer is a browser page on another origin
	c := cors.New(cors.Options{
		AllowedOrigins: container.Config.GetAllowedOrigins(),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler(router)
}
