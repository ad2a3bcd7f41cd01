package sender

import (
	"fmt"
	"log"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/push"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/smsgateway"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/infrastructure/smtp"
)

// Build resolves the single active ChannelSender for a channel from the
// configuration. Test mode substitutes the fake sender; the choice is made
// once here, workers never switch implementations at runtime.
func Build(cfg *config.Config, channel entity.Channel) (service.ChannelSender, error) {
	switch channel {
	case entity.ChannelEmail:
		if cfg.SMTP.TestMode {
			log.Printf("Email sender running in test mode")
			return NewFake(channel), nil
		}
		return smtp.NewSender(&cfg.SMTP), nil
	case entity.ChannelSMS:
		if cfg.SMS.TestMode {
			log.Printf("SMS sender running in test mode")
			return NewFake(channel), nil
		}
		return smsgateway.NewSender(&cfg.SMS), nil
	case entity.ChannelPush:
		if cfg.Push.TestMode {
			log.Printf("Push sender running in test mode")
			return NewFake(channel), nil
		}
		return push.NewSender(&cfg.Push), nil
	default:
		return nil, fmt.Errorf("no sender available for channel %q", channel)
	}
}
