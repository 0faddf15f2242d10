package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/config"
	"orgbase.org/internal/httpapi"
	"orgbase.org/internal/obs"
	"orgbase.org/internal/org"
	"orgbase.org/internal/session"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Postgres when a DSN is set, in-memory stores otherwise
	var db *sql.DB
	var users auth.UserStore
	var orgStore org.Store
	if cfg.PGDSN != "" {
		db, err = sql.Open("pgx", cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		users = auth.NewPGUserStore(db)
		orgStore = org.NewPGStore(db)
	} else {
		log.Printf("no ORGBASE_PG_DSN set, using in-memory stores")
		memUsers := auth.NewMemoryUserStore()
		users = memUsers
		orgStore = org.NewMemoryStore(memUsers)
	}

	// Redis-backed refresh sessions when an address is set
	var sessions session.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb, "")
	} else {
		log.Printf("no ORGBASE_REDIS_ADDR set, using in-memory sessions")
		sessions = session.NewMemoryStore()
	}

	authSvc, err := auth.NewService(users, sessions, cfg.AuthSecret,
		auth.WithAccessTTL(cfg.AccessTTL),
		auth.WithRefreshTTL(cfg.RefreshTTL),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	orgSvc, err := org.NewService(orgStore, users)
	if err != nil {
		log.Fatalf("org service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := orgSvc.SeedRoles(ctx); err != nil {
		cancel()
		log.Fatalf("seed roles: %v", err)
	}
	cancel()

	api := httpapi.New(authSvc, orgSvc, httpapi.ReadyProbe{DB: db}, version)

	var handler http.Handler = api.Handler()
	handler = httpapi.RateLimit(handler, cfg.RateLimitBurst, cfg.RateLimitPerSecond)
	handler = httpapi.MaxBodyBytes(handler, 1<<20)
	handler = httpapi.CORS(handler)
	handler = httpapi.SecurityHeaders(handler)
	handler = httpapi.LoggingJSON(handler)
	handler = httpapi.RequestID(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting orgbase-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
