package http

import (
	_ "embed"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/auth"
	"github.com/kahvecikaan/product-catalog-api/internal/metrics"
	websocketTransport "github.com/kahvecikaan/product-catalog-api/internal/transport/websocket"
	"net/http"
)

//go:embed swagger.yaml
var swaggerSpec []byte

func NewRouter(
	ph *ProductHandler,
	mw *Middleware,
	wsh *websocketTransport.Handler,
) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(mw.LoggingMiddleware)
	router.Use(mw.MetricsMiddleware)
	router.Use(mw.RateLimitMiddleware)

	// Public routes
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Serve the swagger.yaml file
	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(swaggerSpec)
	}).Methods(http.MethodGet)

	// Configure the Redoc middleware to point to the correct SpecURL
	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods(http.MethodGet)

	// Every product route needs an authenticated caller
	api := router.PathPrefix("/api/products").Subrouter()
	api.Use(mw.Authenticate)

	// The event stream upgrades the connection, so it gets no JSON content type
	stream := mw.RequireRole(auth.RoleUser, auth.RoleAdmin)(http.HandlerFunc(wsh.HandleWebSocket))
	api.Handle("/ws", stream).Methods(http.MethodGet)

	reads := api.Methods(http.MethodGet).Subrouter()
	reads.Use(mw.ContentTypeMiddleware)
	reads.Use(mw.RequireRole(auth.RoleUser, auth.RoleAdmin))
	reads.HandleFunc("", ph.GetAllProducts)
	reads.HandleFunc("/", ph.GetAllProducts)
	reads.HandleFunc("/{id:[0-9]+}", ph.GetProductByID)

	// Writes need ADMIN; the role check runs before the body is read
	postRouter := api.Methods(http.MethodPost).Subrouter()
	postRouter.Use(mw.ContentTypeMiddleware)
	postRouter.Use(mw.RequireRole(auth.RoleAdmin))
	postRouter.Use(mw.ValidationMiddleware)
	postRouter.HandleFunc("", ph.CreateProduct)
	postRouter.HandleFunc("/", ph.CreateProduct)

	putRouter := api.Methods(http.MethodPut).Subrouter()
	putRouter.Use(mw.ContentTypeMiddleware)
	putRouter.Use(mw.RequireRole(auth.RoleAdmin))
	putRouter.Use(mw.ValidationMiddleware)
	putRouter.HandleFunc("/{id:[0-9]+}", ph.UpdateProduct)

	// Delete route (no request body, so validation middleware not needed)
	deleteRouter := api.Methods(http.MethodDelete).Subrouter()
	deleteRouter.Use(mw.ContentTypeMiddleware)
	deleteRouter.Use(mw.RequireRole(auth.RoleAdmin))
	deleteRouter.HandleFunc("/{id:[0-9]+}", ph.DeleteProduct)

	// Return the configured router
	return router
}

// NewServerHandler wraps the router with the concerns that must run even when
// no route matches: CORS preflight, gzip compression and panic recovery.
func NewServerHandler(router *mux.Router, cors *CORSConfig, logger hclog.Logger) http.Handler {
	if cors == nil {
		cors = DefaultCORSConfig()
	}

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StandardLogger(&hclog.StandardLoggerOptions{ForceLevel: hclog.Error})),
		handlers.PrintRecoveryStack(true),
	)

	// Upgrade requests are passed through uncompressed
	return recovery(handlers.CompressHandler(cors.CORS()(router)))
}
