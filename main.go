package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-viewer/internal/cards"
	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/handlers"
	"gallery-viewer/internal/lightbox"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/mapping"
	"gallery-viewer/internal/memory"
	"gallery-viewer/internal/middleware"
	"gallery-viewer/internal/probe"
	"gallery-viewer/internal/startup"
	"gallery-viewer/internal/thumbs"
	"gallery-viewer/internal/workers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func main() {
	startTime := time.Now()

	// Configure the heap limit before anything allocates
	memory.Configure()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Load the gallery mapping table and watch it for edits
	table, err := mapping.Load(config.MappingFile)
	if err != nil {
		startup.LogFatal("Failed to load mapping table: %v", err)
	}
	defer table.Close()

	watching := false
	if config.MappingFile != "" {
		if err := table.Watch(); err != nil {
			logging.Warn("Mapping file watch failed: %v", err)
		} else {
			watching = true
		}
	}
	startup.LogMappingInit(config.MappingFile, table.Len(), watching)

	// Initialize the probe service
	probeWorkers := workers.ForIO(0)
	prober := probe.New(probe.Options{
		BaseURL:       config.AssetBaseURL,
		Timeout:       config.ProbeTimeout,
		RateLimit:     rate.Limit(config.ProbeRate),
		BypassCache:   config.ProbeBypassCache,
		MaxConcurrent: probeWorkers,
	})
	startup.LogProberInit(probeWorkers, config.ProbeTimeout)

	// Parse the portfolio page into project cards
	cardsStart := time.Now()
	cardList, err := cards.LoadFile(config.PageFile)
	if err != nil {
		startup.LogFatal("Failed to parse portfolio page: %v", err)
	}
	startup.LogCardsLoaded(config.PageFile, len(cardList), time.Since(cardsStart))

	// Initialize thumbnail generator
	thumbDir := ""
	if config.ThumbnailsEnabled {
		thumbDir = config.ThumbnailDir
	}
	thumbGen := thumbs.NewGenerator(thumbDir, config.AssetBaseURL, nil)
	startup.LogThumbnailInit(thumbGen.IsEnabled())

	// Wire the engine: resolver, rendered surface, lightbox controller
	resolver := gallery.NewResolver(prober, table)
	surface := handlers.NewSurface()
	controller := lightbox.NewController(surface, prober)

	// Initialize handlers
	h := handlers.New(resolver, controller, surface, cardList, thumbGen, table)

	// Setup router
	router := setupRouter(h, config)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply metrics middleware
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, controller, table)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cards", h.ListCards).Methods("GET")
	api.HandleFunc("/cards/{id}/gallery", h.GetCardGallery).Methods("GET")
	api.HandleFunc("/lightbox", h.GetLightbox).Methods("GET")
	api.HandleFunc("/lightbox/open", h.OpenLightbox).Methods("POST")
	api.HandleFunc("/lightbox/show", h.ShowLightbox).Methods("POST")
	api.HandleFunc("/lightbox/next", h.NextLightbox).Methods("POST")
	api.HandleFunc("/lightbox/prev", h.PrevLightbox).Methods("POST")
	api.HandleFunc("/lightbox/close", h.CloseLightbox).Methods("POST")
	api.HandleFunc("/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(config.StaticDir)))

	return r
}

func handleShutdown(srv *http.Server, controller *lightbox.Controller, table *mapping.Table) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Closing lightbox session")
	controller.Close()
	startup.LogShutdownStepComplete("Lightbox closed")

	startup.LogShutdownStep("Stopping mapping file watcher")
	if err := table.Close(); err != nil {
		logging.Warn("Mapping watcher close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Mapping watcher stopped")
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
