package main

import (
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/app"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
)

func main() {
	application, err := app.NewWorker(entity.ChannelSMS)
	if err != nil {
		log.Fatalf("Failed to create sms worker: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("SMS worker error: %v", err)
	}
}
