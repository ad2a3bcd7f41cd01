package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
	domainservice "github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/service"
)

// StatusCache is the optional read cache in front of the channel stores
type StatusCache interface {
	Get(ctx context.Context, notificationID uuid.UUID) (*entity.AggregatedStatus, error)
	Set(ctx context.Context, status *entity.AggregatedStatus) error
}

type statusService struct {
	stores domainservice.ChannelStores
	cache  StatusCache
}

// NewStatusService creates the read-side aggregator over the channel
// stores. cache may be nil.
func NewStatusService(stores domainservice.ChannelStores, cache StatusCache) domainservice.StatusService {
	return &statusService{
		stores: stores,
		cache:  cache,
	}
}

func (s *statusService) GetStatus(ctx context.Context, notificationID uuid.UUID) (*entity.AggregatedStatus, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, notificationID)
		if err != nil {
			// cache trouble degrades to a direct read
			log.Printf("Status cache read failed for %s: %v", notificationID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	aggregate, err := s.aggregate(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, aggregate); err != nil {
			log.Printf("Status cache write failed for %s: %v", notificationID, err)
		}
	}

	return aggregate, nil
}

// aggregate merges every channel's record for the id into one view
func (s *statusService) aggregate(ctx context.Context, notificationID uuid.UUID) (*entity.AggregatedStatus, error) {
	var statuses []entity.ChannelStatus

	for _, channel := range domainservice.Channels() {
		record, err := s.stores[channel].GetByNotificationID(ctx, notificationID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s store: %w", channel, err)
		}
		statuses = append(statuses, projectRecord(record))
	}

	if len(statuses) == 0 {
		return nil, entity.ErrNotFound
	}

	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].CreatedAt.Before(statuses[j].CreatedAt)
	})

	aggregate := &entity.AggregatedStatus{
		NotificationID:  notificationID,
		OverallStatus:   DeriveOverallStatus(statuses),
		ServiceStatuses: statuses,
		CreatedAt:       statuses[0].CreatedAt,
	}

	for _, st := range statuses {
		updated := st.CreatedAt
		if st.SentAt != nil {
			updated = *st.SentAt
		}
		if updated.After(aggregate.LastUpdated) {
			aggregate.LastUpdated = updated
		}
	}

	return aggregate, nil
}

func (s *statusService) Search(ctx context.Context, filter domainservice.SearchFilter, page, pageSize int) ([]*entity.AggregatedStatus, error) {
	recordFilter := repository.RecordFilter{
		Recipient: filter.Recipient,
		Status:    filter.Status,
		From:      filter.From,
		To:        filter.To,
	}

	idSet := make(map[uuid.UUID]struct{})
	for _, channel := range domainservice.Channels() {
		if filter.ServiceType != "" {
			requested, err := entity.ParseChannel(filter.ServiceType)
			if err != nil {
				return nil, err
			}
			if requested != channel {
				continue
			}
		}

		ids, err := s.stores[channel].FindIDs(ctx, recordFilter)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s store: %w", channel, err)
		}
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}

	return s.expand(ctx, paginateIDs(idSet, page, pageSize))
}

func (s *statusService) ByDateRange(ctx context.Context, from, to time.Time, page, pageSize int) ([]*entity.AggregatedStatus, error) {
	idSet := make(map[uuid.UUID]struct{})
	for _, channel := range domainservice.Channels() {
		ids, err := s.stores[channel].DistinctIDs(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s store: %w", channel, err)
		}
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}

	return s.expand(ctx, paginateIDs(idSet, page, pageSize))
}

func (s *statusService) Statistics(ctx context.Context, from, to time.Time) (*domainservice.Statistics, error) {
	stats := &domainservice.Statistics{
		Counts: make(map[string]int),
	}

	idSet := make(map[uuid.UUID]struct{})

	for _, channel := range domainservice.Channels() {
		counts, err := s.stores[channel].CountByStatus(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s store: %w", channel, err)
		}

		total := 0
		for status, count := range counts {
			stats.Counts[fmt.Sprintf("%s_%s", channel, status)] = count
			total += count
		}
		stats.Counts[fmt.Sprintf("total_%s", channel)] = total

		ids, err := s.stores[channel].DistinctIDs(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s store: %w", channel, err)
		}
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}

	stats.TotalNotifications = len(idSet)
	return stats, nil
}

// expand resolves each surviving id into its full aggregated view
func (s *statusService) expand(ctx context.Context, ids []uuid.UUID) ([]*entity.AggregatedStatus, error) {
	result := make([]*entity.AggregatedStatus, 0, len(ids))
	for _, id := range ids {
		aggregate, err := s.aggregate(ctx, id)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, aggregate)
	}
	return result, nil
}

// paginateIDs orders the distinct id set deterministically and slices the
// requested page. Pagination runs over distinct notifications, not over
// per-channel records.
func paginateIDs(idSet map[uuid.UUID]struct{}, page, pageSize int) []uuid.UUID {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() > ids[j].String()
	})

	start := (page - 1) * pageSize
	if start >= len(ids) {
		return nil
	}
	end := start + pageSize
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

func projectRecord(record *entity.ChannelRecord) entity.ChannelStatus {
	return entity.ChannelStatus{
		NotificationID: record.NotificationID,
		ServiceType:    record.ServiceType,
		Status:         record.EffectiveStatus(),
		ErrorMessage:   record.ErrorMessage,
		RetryCount:     record.RetryCount,
		Recipient:      record.Recipient,
		Subject:        record.Subject,
		Message:        record.Message,
		CreatedAt:      record.CreatedAt,
		SentAt:         record.SentAt,
	}
}

// DeriveOverallStatus folds per-channel statuses into the cross-channel
// summary. A provider-reported "delivered" counts the same as "sent".
func DeriveOverallStatus(statuses []entity.ChannelStatus) entity.OverallStatus {
	if len(statuses) == 0 {
		return entity.OverallStatusUnknown
	}

	var sent, failed, pending int
	for _, st := range statuses {
		switch st.Status {
		case entity.RecordStatusSent, entity.RecordStatusDelivered:
			sent++
		case entity.RecordStatusFailed:
			failed++
		case entity.RecordStatusPending:
			pending++
		}
	}

	total := len(statuses)

	if sent > 0 {
		if sent == total {
			return entity.OverallStatusCompleted
		}
		if failed > 0 {
			return entity.OverallStatusPartiallyFailed
		}
		return entity.OverallStatusInProgress
	}

	if failed > 0 {
		if failed == total {
			return entity.OverallStatusFailed
		}
		return entity.OverallStatusPartiallyFailed
	}

	if pending == total {
		return entity.OverallStatusPending
	}

	return entity.OverallStatusInProgress
}
