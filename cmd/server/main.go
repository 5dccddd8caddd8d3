package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"histock/internal/config"
	"histock/internal/database"
	"histock/internal/feed"
	handler "histock/internal/handler/http"
	"histock/internal/logger"
	middleware_http "histock/internal/middleware/http"
	"histock/internal/repository"
	"histock/internal/service"
	"histock/internal/tracer"
	"histock/internal/version"
)

func main() {
	globalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Instance()
	cfg := config.Instance()

	log.Info(cfg.AppName,
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
		slog.String("buildTime", version.BuildTime),
	)

	// Initialize telemetry (OpenTelemetry + Pyroscope)
	shutdown, _ := tracer.Instance(globalCtx)
	defer shutdown()

	// Connect to MongoDB
	db, err := database.Instance(globalCtx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Error("Failed to connect to MongoDB", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wiring
	productRepo := repository.NewProductRepository(db.Database)
	transactionRepo := repository.NewTransactionRepository(db.Database, cfg.TransactionFeedLimit)
	settingsRepo := repository.NewSettingsRepository(db.Database)

	sync := feed.NewSynchronizer(productRepo, transactionRepo, settingsRepo)
	go sync.Run(globalCtx)

	inventoryService := service.NewInventoryService(productRepo, transactionRepo, sync.Products())
	settingsService := service.NewSettingsService(settingsRepo, sync.Categories())

	inventoryHandler := handler.NewInventoryHandler(inventoryService, sync)
	scanHandler := handler.NewScanHandler(inventoryService, sync.Products())
	settingsHandler := handler.NewSettingsHandler(settingsService)

	// Wiring health service
	healthService := service.NewHealthService(db.Client)
	healthHandler := handler.NewHealthHandler(healthService)

	// Routing
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		resp := map[string]string{"data": cfg.AppName}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		inventoryHandler.GetProducts(globalCtx, w, r)
	})

	mux.HandleFunc("/product", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			inventoryHandler.GetProduct(globalCtx, w, r)
		case http.MethodPost:
			inventoryHandler.CreateProduct(globalCtx, w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/transaction", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			inventoryHandler.CreateTransaction(globalCtx, w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		inventoryHandler.GetTransactions(globalCtx, w, r)
	})

	mux.HandleFunc("/scan", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			scanHandler.Scan(globalCtx, w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/categories", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			settingsHandler.GetCategories(globalCtx, w, r)
		case http.MethodPut:
			settingsHandler.PutCategories(globalCtx, w, r)
		case http.MethodPost:
			settingsHandler.AddCategory(globalCtx, w, r)
		case http.MethodDelete:
			settingsHandler.RemoveCategory(globalCtx, w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		inventoryHandler.Dashboard(globalCtx, w, r)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			healthHandler.Check(globalCtx, w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// HTTP server
	wrappedMux := middleware_http.TraceMiddleware(globalCtx)(mux)
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      wrappedMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-globalCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("HTTP server running", slog.String("addr", server.Addr))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
