package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kevinaaaquil/dejapp/config"
	"github.com/kevinaaaquil/dejapp/content"
	"github.com/kevinaaaquil/dejapp/handlers"
	"github.com/kevinaaaquil/dejapp/logger"
	"github.com/kevinaaaquil/dejapp/metrics"
	"github.com/kevinaaaquil/dejapp/policy"
	"github.com/kevinaaaquil/dejapp/service"
	"github.com/kevinaaaquil/dejapp/store"
	"github.com/kevinaaaquil/dejapp/store/memstore"
)

// backend is everything the services need from the data collaborator.
type backend interface {
	service.ProfileStore
	service.DocumentStore
	service.ConfirmationStore
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	slog.SetDefault(log)
	if err := config.ValidateEnv(cfg, log); err != nil {
		log.Error("env check failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()
	var db backend
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store; data is lost on restart")
		db = memstore.New()
	default:
		mdb, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
		if err != nil {
			log.Error("mongodb", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := mdb.Disconnect(context.Background()); err != nil {
				log.Error("mongodb disconnect", slog.Any("error", err))
			}
		}()
		if err := mdb.EnsureIndexes(ctx); err != nil {
			log.Error("mongodb indexes", slog.Any("error", err))
			os.Exit(1)
		}
		db = mdb
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var mailer service.Mailer = &service.LogMailer{Logger: log}
	if cfg.SMTPHost != "" {
		mailer = service.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}

	gate := policy.NewGate(cfg.MutationPolicy)
	docs := &service.Documents{Store: db, Gate: gate, Metrics: m, Logger: log}
	if cfg.DriveAPIKey != "" {
		inspector, err := service.NewDriveInspector(ctx, cfg.DriveAPIKey)
		if err != nil {
			log.Error("drive", slog.Any("error", err))
			os.Exit(1)
		}
		docs.Links = inspector
	}

	catalog, err := content.Default()
	if err != nil {
		log.Error("content catalog", slog.Any("error", err))
		os.Exit(1)
	}

	sessions := &service.SessionProvider{
		Profiles:            db,
		Confirmations:       db,
		Mailer:              mailer,
		Roles:               cfg.RoleRule,
		Tokens:              &service.TokenIssuer{Secret: []byte(cfg.JWTSecret), TTL: cfg.SessionTTL},
		Sessions:            service.NewSessionRegistry(cfg.SessionTTL),
		Metrics:             m,
		Logger:              log,
		RequireConfirmation: cfg.RequireEmailConf,
		PublicURL:           cfg.PublicURL,
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:          &handlers.AuthHandler{Sessions: sessions, Gate: gate},
		Docs:          &handlers.DocumentsHandler{Docs: docs, Gate: gate, SearchFields: cfg.SearchFields},
		Content:       &handlers.ContentHandler{Catalog: catalog},
		Profiles:      &handlers.ProfilesHandler{Profiles: db},
		Metrics:       m,
		Logger:        log,
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.AuthRateLimit,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	go func() {
		log.Info("server listening", slog.String("addr", server.Addr),
			slog.String("store", cfg.StoreDriver),
			slog.String("mutation_policy", string(cfg.MutationPolicy)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", slog.Any("error", err))
	}
}
