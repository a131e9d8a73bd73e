package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkshare/api"
	"parkshare/booking"
	"parkshare/config"
	"parkshare/database"
	"parkshare/marketplace"
	"parkshare/seed"
	"parkshare/session"
	"parkshare/settlement"
	"parkshare/slot"
	"parkshare/user"
)

type repositories struct {
	users    user.Repository
	slots    slot.Repository
	bookings booking.Repository
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	repos, db, err := openRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("open repositories: ", err)
	}
	if db != nil {
		defer db.Close()
	}

	if cfg.SeedCatalog {
		if err := seed.Load(ctx, repos.users, repos.slots, repos.bookings); err != nil {
			log.Fatal("seed catalog: ", err)
		}
	}

	storage, err := session.NewFileStorage(cfg.SessionDir, cfg.SessionSecret)
	if err != nil {
		log.Fatal("session storage: ", err)
	}
	sessions := session.NewStore(repos.users, storage, session.WithPasswordVerification(cfg.VerifyPasswords))
	if u, ok := sessions.Restore(ctx); ok {
		log.Printf("restored session for %s", u.Email)
	} else {
		log.Println("no saved session, starting signed out")
	}

	market := marketplace.NewService(sessions, repos.slots, repos.bookings)

	settler := settlement.NewSettler(repos.bookings, time.Now)
	if cfg.SettlementSchedule != "" {
		if err := settler.Schedule(cfg.SettlementSchedule); err != nil {
			log.Fatal("settlement: ", err)
		}
		defer settler.Stop()
	}

	service := api.NewAPI(sessions, market)
	service.RegisterRoutes()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           service.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server starting on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shut down: %v", err)
	}
	log.Println("server stopped")
}

// openRepositories uses Postgres when a DSN is configured and process memory otherwise.
func openRepositories(ctx context.Context, cfg *config.Config) (repositories, *sql.DB, error) {
	if cfg.PostgresDSN == "" {
		log.Println("POSTGRES_DSN not set, keeping the catalog in memory")
		return repositories{
			users:    user.NewMemoryDirectory(),
			slots:    slot.NewMemoryCatalog(),
			bookings: booking.NewMemoryLedger(),
		}, nil, nil
	}

	log.Printf("attempting to connect to database...")
	db, err := database.Connect(cfg.PostgresDSN)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return repositories{}, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, nil, err
	}
	log.Println("successfully connected to database")

	return repositories{
		users:    user.NewAccessor(db),
		slots:    slot.NewAccessor(db),
		bookings: booking.NewAccessor(db),
	}, db, nil
}
