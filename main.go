package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chat-relay/config"
	"github.com/example/chat-relay/modules/api"
	"github.com/example/chat-relay/modules/broadcast"
	"github.com/example/chat-relay/modules/session"
	"github.com/example/chat-relay/modules/stats"
)

func main() {
	log.Println("=== Chat Relay - Fiber + EventBus ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	logger := app.Logger()

	// Core services shared between modules. The hub and session service are
	// wired directly rather than through the ServiceContainer because client
	// delivery must stay in-process and ordered.
	hub := broadcast.NewHub(cfg.OutboundQueueSize, logger)
	registry := session.NewRegistry()
	typing := session.NewTypingTracker()
	svc := session.NewService(registry, typing, hub, logger)

	sessionModule := session.NewModule(svc, logger)
	broadcastModule := broadcast.NewModule(hub, logger)
	statsModule := stats.NewModule(logger)
	apiModule := api.NewModule(cfg, logger)

	apiModule.SetHub(hub)
	apiModule.SetSession(svc)

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - session: Core domain (EventEmitterModule)
	// - broadcast: Outbound fan-out hub
	// - stats: Event consumer + ServiceProviderModule
	// - api: Driving adapter (Fiber HTTP/WebSocket server, depends on stats)
	for _, module := range []mono.Module{
		sessionModule,
		broadcastModule,
		statsModule,
		apiModule,
	} {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register module %s: %v", module.Name(), err)
		}
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg config.Config) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("HTTP Endpoints (http://localhost:%d):", cfg.Port)
	log.Println("  GET    /          - Server status and online count")
	log.Println("  GET    /health    - Health check")
	log.Println("  GET    /stats     - Relay activity counters")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%d/ws):", cfg.Port)
	log.Println("  Inbound events:  join, send_message, typing")
	log.Println("  Outbound events: user_joined, online_users, users_update,")
	log.Println("                   receive_message, user_typing, user_left")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
