package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"ocev/internal/config"
	"ocev/internal/container"
	"ocev/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(context.Background(), appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize application container: %v", err)
	}
	defer appContainer.Close()

	server := ui.NewServer(ui.Config{
		Port:    appConfig.Server.Port,
		GinMode: appConfig.Server.GinMode,
	}, appContainer.Service, appContainer.Reports)

	log.Fatal(server.Run(appConfig.Server.Port))
}
