package main

import (
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/app"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

func main() {
	application, err := app.NewWorker(entity.ChannelPush)
	if err != nil {
		log.Fatalf("Failed to create push worker: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Push worker error: %v", err)
	}
}
