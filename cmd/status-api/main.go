package main

import (
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/app"
)

func main() {
	application, err := app.NewStatusAPI()
	if err != nil {
		log.Fatalf("Failed to create status API: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Status API error: %v", err)
	}
}
