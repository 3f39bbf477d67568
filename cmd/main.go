package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-hub/auth"
	"live-hub/infrastructure/ws"
	"live-hub/internal"
	"live-hub/moderation"
	"live-hub/runtime"
	"live-hub/runtime/workers"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that every defer executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation
	mask, err := maskRune(config.MaskCharacter)
	if err != nil {
		return err
	}
	words, err := moderation.LoadWords(config.MaskedWordsFile)
	if err != nil {
		return fmt.Errorf("loading masked words: %w", err)
	}
	masker, err := moderation.NewMasker(words, mask)
	if err != nil {
		return fmt.Errorf("building masker: %w", err)
	}
	log.Info(fmt.Sprintf("%d masked words loaded", len(words)))

	// 3. Core: registry, presence, router
	registry := runtime.NewRegistry()
	presence := runtime.NewTracker(registry)
	router := runtime.NewRouter(log, registry, presence, masker,
		config.BufferSize, config.SinkTimeout)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Supervision
	sup := workers.NewSupervisor(log)
	sup.Add(router)
	sup.Add(workers.NewHealthWorker(log, registry, config.MetricInterval))
	go sup.Run(ctx)

	// 6. HTTP surface: websocket upgrade, stats, publish relay
	verifier := auth.NewVerifier(config.JWTSecret)
	wsServer := ws.NewServer(log, router, registry, verifier, config.ConnectionBufferSize)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsServer.Handler())
	mux.HandleFunc("/stats", internal.StatsHandler(registry))
	mux.HandleFunc("/publish", internal.PublishHandler(log, router))

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting live hub", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
