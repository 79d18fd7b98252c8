package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	amqpadapter "dashpmo/internal/adapters/amqp"
	httpadapter "dashpmo/internal/adapters/http"
	pg "dashpmo/internal/adapters/postgres"
	"dashpmo/internal/config"
	"dashpmo/internal/logging"
	"dashpmo/internal/ports"
	importsvc "dashpmo/internal/services/imports"
	"dashpmo/internal/workers/previewjanitor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("warning: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for Postgres adapters")
	}
	logging.SetLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var _ ports.ProjectRepository = db
	var _ ports.ImportWriter = db

	var publisher ports.EventPublisher = amqpadapter.Noop{}
	if cfg.AMQPURL != "" {
		p, err := amqpadapter.Dial(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			log.Fatalf("amqp error: %v", err)
		}
		defer p.Close()
		publisher = p
		log.Printf("publishing import events to queue %s", cfg.AMQPQueue)
	}

	imports := importsvc.New(db, db, publisher, importsvc.Options{
		TTL:          cfg.PreviewTTL,
		StoreTimeout: cfg.StoreTimeout,
	})
	go previewjanitor.Run(ctx, imports, time.Minute)

	srv := httpadapter.New(imports, cfg.MaxUploadBytes())
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Printf("listening on %s (%s)", cfg.ListenAddr, cfg.Env)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("shutting down on %s", sig)
		cancel()
		shutCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(fmt.Errorf("server error: %w", err))
		}
	}
}
