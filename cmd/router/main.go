package main

import (
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/app"
)

func main() {
	application, err := app.NewRouter()
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Router error: %v", err)
	}
}
