package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-hub/auth"
	"live-hub/client"
	"live-hub/infrastructure/wire"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the tail client.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	HubURL    string `envconfig:"HUB_URL" default:"ws://localhost:8080/ws"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	UserID    string `envconfig:"USER_ID" default:"tail-operator"`
	LiveID    string `envconfig:"LIVE_ID"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Tail error: %v\n", err)
	}
	os.Exit(code)
}

// run connects to the hub as a viewer and prints every event it
// receives, colorized by event type, until interrupted.
func run() (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token, err := auth.GenerateToken(config.JWTSecret, config.UserID, nil, 24*time.Hour)
	if err != nil {
		return exitRuntime, fmt.Errorf("minting token: %w", err)
	}

	rec := client.NewReconciler(log, config.UserID)
	socket := client.NewSocket(log, config.HubURL, token, rec)
	socket.OnEvent(printEvent)

	if err := socket.Dial(ctx); err != nil {
		return exitRuntime, err
	}
	defer func() {
		log.Info("Closing connection...")
		_ = socket.Close()
	}()

	if config.LiveID != "" {
		if err := socket.Send(wire.EventJoinLiveRoom, wire.LiveRoomPayload{LiveID: config.LiveID}); err != nil {
			return exitRuntime, fmt.Errorf("joining live %s: %w", config.LiveID, err)
		}
		color.Cyan.Printf(">>> Watching live %s on %s (Ctrl+C to quit)\n", config.LiveID, config.HubURL)
	} else {
		color.Cyan.Printf(">>> Connected to %s (Ctrl+C to quit)\n", config.HubURL)
	}

	<-ctx.Done()
	log.Info("Stopping tail client...")
	return exitOK, nil
}

func printEvent(env wire.Envelope) {
	stamp := time.Now().Format(time.TimeOnly)
	payload := compact(env.Payload)

	switch env.Event {
	case "updateViewers":
		color.Yellow.Printf("[%s] %s %s\n", stamp, env.Event, payload)
	case "newLive", "liveEnded":
		color.Magenta.Printf("[%s] %s %s\n", stamp, env.Event, payload)
	case "commentAdded", "likeVideo":
		color.Green.Printf("[%s] %s %s\n", stamp, env.Event, payload)
	default:
		color.Gray.Printf("[%s] %s %s\n", stamp, env.Event, payload)
	}
}

func compact(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}
