// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/halcyon-games/armada/internal/bot"
	"github.com/halcyon-games/armada/internal/engine"
	"github.com/halcyon-games/armada/internal/ledger"
	"github.com/halcyon-games/armada/internal/middleware"
	"github.com/halcyon-games/armada/internal/player"
	"github.com/halcyon-games/armada/internal/room"
	"github.com/halcyon-games/armada/internal/server"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	difficulty, err := bot.ParseDifficulty(os.Getenv("BOT_DIFFICULTY"))
	if err != nil {
		logger.Fatalf("invalid BOT_DIFFICULTY: %v", err)
	}

	var ledg ledger.Ledger
	if url := os.Getenv("REDIS_URL"); url != "" {
		redisLedger, err := ledger.NewRedis(url)
		if err != nil {
			logger.Fatalf("connect redis ledger: %v", err)
		}
		defer redisLedger.Close()
		ledg = redisLedger
		logger.Info("Winners ledger backed by Redis")
	} else {
		ledg = ledger.NewMemory()
	}

	registry := player.NewRegistry()
	rooms := room.NewManager()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	opponent := bot.New(difficulty, rng)
	eng := engine.New(registry, ledg, opponent, logger)

	srv := server.New(logger, registry, rooms, eng, ledg)

	mux := http.NewServeMux()
	mux.Handle("/", middleware.LogRequests(logger)(srv.Handler()))

	addr := ":3000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	httpSrv := &http.Server{Addr: addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Running on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("shutdown: %v", err)
	}
}
