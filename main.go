// main.go
//
// Entry point for the Codenames local party server.
// Wires together: env config (godotenv), zerolog, the SQLite history
// store, the in-memory game store, the anti-repetition word selector, the
// AI word generator, the websocket hub, and the HTTP server. Also runs the
// hourly eviction sweep and shuts the listener down on SIGINT/SIGTERM.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tarunjain15/codenames-local/internal/history"
	"github.com/tarunjain15/codenames-local/internal/httpserver"
	"github.com/tarunjain15/codenames-local/internal/store"
	"github.com/tarunjain15/codenames-local/internal/words"
	"github.com/tarunjain15/codenames-local/internal/ws"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable game history (best-effort collaborator, not the live store).
	db, err := openDB(getEnv("DB_PATH", "./data/codenames.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open history database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	mem := store.NewMemoryStore()
	selector := words.NewSelector()
	generator := words.NewClaudeGenerator(os.Getenv("ANTHROPIC_API_KEY"))
	hub := ws.NewHub()
	go hub.PingLoop(ctx)

	srv := httpserver.New(mem, selector, generator, hub, history.NewStore(db))

	// Evict games untouched for GAME_TTL_HOURS, once per sweep interval.
	ttl := time.Duration(envInt("GAME_TTL_HOURS", 24)) * time.Hour
	go sweepLoop(ctx, mem, ttl, time.Duration(envInt("SWEEP_INTERVAL_HOURS", 1))*time.Hour)

	port := getEnv("PORT", "3000")
	httpSrv := &http.Server{Addr: ":" + port, Handler: srv.Router()}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", port).Msg("starting codenames server")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// sweepLoop periodically evicts games whose last update is older than ttl.
func sweepLoop(ctx context.Context, st store.Store, ttl, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := st.Sweep(ctx, ttl)
			if err != nil {
				log.Warn().Err(err).Msg("sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int("evicted", n).Msg("swept stale games")
			}
		}
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// envInt parses an integer env var, falling back to def.
func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
