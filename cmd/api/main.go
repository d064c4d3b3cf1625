package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cetaksoal/internal/api"
	"cetaksoal/internal/config"
	"cetaksoal/internal/container"

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.Open(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	router := api.New(api.Config{
		MaxUploadBytes: appConfig.Import.MaxUploadBytes(),
		Header:         appConfig.Document.Header,
		Settings:       appConfig.Document.Settings,
		LedgerLimit:    appConfig.Import.LedgerLimit,
	}, appContainer.DetachedImporter(), appContainer.Renderer, appContainer.Logger)

	server := &http.Server{
		Addr:         ":" + appConfig.Server.APIPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Println("Received shutdown signal, stopping API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
		if err := appContainer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during container shutdown: %v", err)
		}
	}()

	log.Printf("Starting Cetak Soal API on :%s", appConfig.Server.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	<-shutdownDone
}
