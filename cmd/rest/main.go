package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"whatsapp-sales-be/internal/bootstrap"
	"whatsapp-sales-be/internal/config"
	"whatsapp-sales-be/internal/server"
	"whatsapp-sales-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Gracefully shutting down...")
		_ = srv.Shutdown()
		if container.Redis != nil {
			_ = container.Redis.Close()
		}
		_ = container.Logger.Sync()
	}()

	// 6. Run Server
	log.Fatal(srv.Run())
}
