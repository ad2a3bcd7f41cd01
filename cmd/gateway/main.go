package main

import (
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/app"
)

func main() {
	application, err := app.NewGateway()
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Gateway error: %v", err)
	}
}
