package sender

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
)

// Fake is an always-succeeding sender used in test mode. It logs what it
// would have sent and fabricates an external id so downstream handling of
// provider ids stays exercised.
type Fake struct {
	channel entity.Channel
}

// NewFake creates a fake sender for the channel
func NewFake(channel entity.Channel) service.ChannelSender {
	return &Fake{channel: channel}
}

func (f *Fake) Send(ctx context.Context, request *entity.NotificationRequest) (*entity.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("FAKE %s SENDER: would send to %s: %s", f.channel, request.Recipient, request.Subject)

	externalID := uuid.New()
	return &entity.SendResult{ExternalID: &externalID}, nil
}
