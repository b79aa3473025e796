// jobmate-board-service
//
// Serves the job board: one fetched job collection, filtered per request.
//   - GET  /jobs     → filtered jobs plus location / job-type options
//   - POST /jobs     → validate and publish a new posting
//   - POST /refresh  → re-fetch now
//   - gRPC jobboard.v1.BoardService (Query, Refresh, CreateJob)
//
// The collection comes from the jobs REST API (JOBS_API_URL) or, failing
// that, a read-only Postgres mirror (DATABASE_URL). With REDIS_URL set the
// fetched snapshot is cached in Redis and EVENT_JOB_CREATED is published.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"jobmate/board-service/internal/board"
	"jobmate/board-service/internal/boardhttp"
	"jobmate/board-service/internal/config"
	"jobmate/board-service/internal/db"
	"jobmate/board-service/internal/feed"
	"jobmate/board-service/internal/grpcserver"
	"jobmate/board-service/internal/posting"
	"jobmate/board-service/internal/scheduler"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[board-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Redis (optional) ─────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[board-service] Connecting to Redis…")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[board-service] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[board-service] Redis connected ✓")
	}

	// ── Job source ───────────────────────────────────────────────────────────
	var (
		src    feed.Source
		api    *feed.Client
		pool   *pgxpool.Pool
		cached *feed.CachedSource
	)
	if cfg.JobsAPIURL != "" {
		api = feed.NewClient(cfg.JobsAPIURL, feed.WithTimeout(cfg.FetchTimeout))
		src = api
		log.Printf("[board-service] Fetching jobs from %s", cfg.JobsAPIURL)
	} else {
		log.Println("[board-service] Connecting to PostgreSQL…")
		pool, err = db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[board-service] PostgreSQL: %v", err)
		}
		defer pool.Close()
		src = feed.NewPostgresSource(pool)
		log.Println("[board-service] PostgreSQL connected ✓")
	}
	if rdb != nil {
		cached = feed.NewCachedSource(src, rdb, cfg.CacheTTL)
		src = cached
	}

	// ── Board + postings ─────────────────────────────────────────────────────
	b := board.New(src)
	defer b.Close()

	var postings *posting.Service
	if api != nil {
		postings = posting.NewService(api, rdb)
	} else {
		log.Println("[board-service] No JOBS_API_URL: job creation disabled")
	}

	// ── Scheduler ────────────────────────────────────────────────────────────
	var inv scheduler.Invalidator
	if cached != nil {
		inv = cached
	}
	sched := scheduler.New(b, inv, cfg.RefreshInterval)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[board-service] Scheduler: %v", err)
	}

	// ── gRPC server ──────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("[board-service] gRPC listen: %v", err)
	}
	gs := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor))
	grpcserver.Register(gs, grpcserver.NewServer(b, postings))

	go func() {
		log.Printf("[board-service] gRPC listening on :%s", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil {
			log.Fatalf("[board-service] gRPC server error: %v", err)
		}
	}()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	boardhttp.NewHandler(b, postings).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 5*time.Second,
	}

	go func() {
		log.Printf("[board-service] v%s listening on :%s", version, cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[board-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[board-service] Shutting down…")
	b.Close()
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[board-service] Shutdown error: %v", err)
	}
	gs.GracefulStop()
	log.Println("[board-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "board-service",
		"version": version,
	})
}
