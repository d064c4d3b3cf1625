package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cetaksoal/internal/config"
	"cetaksoal/internal/container"
	"cetaksoal/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.Open(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	hub := ui.NewEventHub(appContainer.Store, appContainer.Logger)
	server, err := ui.NewServer(ui.Config{
		MaxUploadBytes: appConfig.Import.MaxUploadBytes(),
		AllowedTypes:   appConfig.Import.AllowedTypes,
	}, appContainer.Store, appContainer.Renderer, appContainer.Refresher, appContainer.Importer, hub, appContainer.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	// no write timeout: /events streams stay open
	httpServer := &http.Server{
		Addr:        ":" + appConfig.Server.Port,
		Handler:     server.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Println("Received shutdown signal, stopping server...")
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
		if err := appContainer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during container shutdown: %v", err)
		}
	}()

	log.Printf("Starting Cetak Soal on http://localhost:%s", appConfig.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	<-shutdownDone
	log.Println("Server stopped")
}
