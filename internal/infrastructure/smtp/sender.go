package smtp

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/config"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
)

// Sender delivers email notifications over SMTP
type Sender struct {
	cfg *config.SMTPConfig
}

// NewSender creates a new SMTP sender
func NewSender(cfg *config.SMTPConfig) service.ChannelSender {
	return &Sender{cfg: cfg}
}

func (s *Sender) Send(ctx context.Context, request *entity.NotificationRequest) (*entity.SendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail))
	m.SetHeader("To", request.Recipient)
	m.SetHeader("Subject", request.Subject)
	m.SetBody("text/plain", request.Message)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	// UseTLS = true means STARTTLS (port 587), false means implicit SSL (port 465)
	d.SSL = !s.cfg.UseTLS
	d.TLSConfig = &tls.Config{
		ServerName: s.cfg.Host,
	}

	if err := d.DialAndSend(m); err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return &entity.SendResult{}, nil
}
