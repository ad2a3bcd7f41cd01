package main

import (
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/app"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

func main() {
	application, err := app.NewWorker(entity.ChannelEmail)
	if err != nil {
		log.Fatalf("Failed to create email worker: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Email worker error: %v", err)
	}
}
