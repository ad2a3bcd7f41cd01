package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
	domainservice "github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/metrics"
)

// RetryPolicy bounds delivery attempts. Only the first MaxRetries-1
// delays are used; the final attempt is not followed by a sleep.
type RetryPolicy struct {
	MaxRetries int
	Delays     []time.Duration
}

// Validate checks the policy shape
func (p RetryPolicy) Validate() error {
	if p.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", p.MaxRetries)
	}
	if len(p.Delays) < p.MaxRetries-1 {
		return fmt.Errorf("retry delays must have at least %d entries, got %d", p.MaxRetries-1, len(p.Delays))
	}
	return nil
}

// Processor turns one notification request into exactly one terminal
// channel record, sending at most MaxRetries real attempts and never
// double-sending for the same notification id.
type Processor struct {
	channel entity.Channel
	repo    repository.ChannelRecordRepository
	sender  domainservice.ChannelSender
	retry   RetryPolicy
	sink    metrics.Sink
}

// NewProcessor creates a channel processor
func NewProcessor(
	channel entity.Channel,
	repo repository.ChannelRecordRepository,
	sender domainservice.ChannelSender,
	retry RetryPolicy,
	sink metrics.Sink,
) (*Processor, error) {
	if err := retry.Validate(); err != nil {
		return nil, err
	}

	return &Processor{
		channel: channel,
		repo:    repo,
		sender:  sender,
		retry:   retry,
		sink:    sink,
	}, nil
}

// Process handles one notification request. Storage errors are returned
// to the caller so the message stays unacknowledged and the broker
// redelivers it; the dedup check then prevents a second record.
func (p *Processor) Process(ctx context.Context, request *entity.NotificationRequest) error {
	log.Printf("Processing %s notification %s", p.channel, request.ID)

	existing, err := p.repo.GetByNotificationID(ctx, request.ID)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("failed to check for existing record %s: %w", request.ID, err)
	}
	if existing != nil {
		log.Printf("Notification %s already processed on %s (status %s), skipping",
			request.ID, p.channel, existing.Status)
		p.sink.Count(metrics.NotificationsDuplicate, 1, map[string]string{"channel": string(p.channel)})
		return nil
	}

	record := &entity.ChannelRecord{
		NotificationID: request.ID,
		ServiceType:    p.channel,
		Recipient:      request.Recipient,
		Subject:        request.Subject,
		Message:        request.Message,
		Status:         entity.RecordStatusPending,
		RetryCount:     0,
		CreatedAt:      time.Now().UTC(),
	}
	if platform := request.Platform(); platform != "" && p.channel == entity.ChannelPush {
		record.Platform = &platform
	}

	if err := p.repo.Create(ctx, record); err != nil {
		if errors.Is(err, entity.ErrDuplicateNotification) {
			// lost the insert race to a concurrent consumer, the unique
			// index is the source of truth for "exactly one record"
			log.Printf("Notification %s already inserted on %s by another consumer, skipping",
				request.ID, p.channel)
			p.sink.Count(metrics.NotificationsDuplicate, 1, map[string]string{"channel": string(p.channel)})
			return nil
		}
		return fmt.Errorf("failed to create record for %s: %w", request.ID, err)
	}

	result, sendErr := p.sendWithRetry(ctx, request)

	if sendErr != nil {
		var storageErr *storageError
		if errors.As(sendErr, &storageErr) {
			return storageErr.err
		}

		if err := p.repo.MarkFailed(ctx, request.ID, sendErr.Error()); err != nil {
			return fmt.Errorf("failed to finalize record %s: %w", request.ID, err)
		}
		log.Printf("Failed to send %s notification %s to %s after retries: %v",
			p.channel, request.ID, request.Recipient, sendErr)
		p.sink.Count(metrics.NotificationsProcessed, 1,
			map[string]string{"channel": string(p.channel), "status": "failed"})
		return nil
	}

	var externalID *uuid.UUID
	if result != nil {
		externalID = result.ExternalID
	}
	if err := p.repo.MarkSent(ctx, request.ID, time.Now().UTC(), externalID); err != nil {
		return fmt.Errorf("failed to finalize record %s: %w", request.ID, err)
	}

	log.Printf("Sent %s notification %s to %s", p.channel, request.ID, request.Recipient)
	p.sink.Count(metrics.NotificationsProcessed, 1,
		map[string]string{"channel": string(p.channel), "status": "sent"})
	return nil
}

// storageError marks a mid-retry persistence failure so Process can
// distinguish it from send exhaustion
type storageError struct {
	err error
}

func (e *storageError) Error() string { return e.err.Error() }

// sendWithRetry drives the bounded attempt loop. Sender errors count as
// failed attempts and never abort the loop; retry progress is persisted
// before each backoff sleep so it survives a crash mid-wait.
func (p *Processor) sendWithRetry(ctx context.Context, request *entity.NotificationRequest) (*entity.SendResult, error) {
	var lastErr error

	for attempt := 0; attempt < p.retry.MaxRetries; attempt++ {
		p.sink.Count(metrics.SendAttempts, 1, map[string]string{"channel": string(p.channel)})

		result, err := p.sender.Send(ctx, request)
		if err == nil {
			return result, nil
		}

		lastErr = err
		log.Printf("Send failed for %s notification %s (attempt %d/%d): %v",
			p.channel, request.ID, attempt+1, p.retry.MaxRetries, err)

		if err := p.repo.UpdateRetryCount(ctx, request.ID, attempt+1, lastErr.Error()); err != nil {
			return nil, &storageError{err: fmt.Errorf("failed to persist retry count for %s: %w", request.ID, err)}
		}

		if attempt < p.retry.MaxRetries-1 {
			select {
			case <-ctx.Done():
				// shutdown mid-backoff: leave the pending record as is,
				// the unacknowledged message is redelivered by the broker
				return nil, &storageError{err: ctx.Err()}
			case <-time.After(p.retry.Delays[attempt]):
			}
		}
	}

	return nil, fmt.Errorf("all %d attempts failed, last error: %w", p.retry.MaxRetries, lastErr)
}
