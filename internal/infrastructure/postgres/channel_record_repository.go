package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/entity"
	"github.com/Kostornoj-Dmitrij/notificationSender/internal/domain/repository"
)

const uniqueViolationCode = "23505"

var channelTables = map[entity.Channel]string{
	entity.ChannelEmail: "email_notifications",
	entity.ChannelSMS:   "sms_notifications",
	entity.ChannelPush:  "push_notifications",
}

type channelRecordRepository struct {
	db    *pgxpool.Pool
	table string
}

// NewChannelRecordRepository creates a PostgreSQL record repository bound
// to one channel's table
func NewChannelRecordRepository(db *pgxpool.Pool, channel entity.Channel) (repository.ChannelRecordRepository, error) {
	table, ok := channelTables[channel]
	if !ok {
		return nil, fmt.Errorf("no table mapped for channel %q", channel)
	}

	return &channelRecordRepository{
		db:    db,
		table: table,
	}, nil
}

func (r *channelRecordRepository) Create(ctx context.Context, record *entity.ChannelRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (notification_id, recipient, subject, message, platform, status, retry_count, service_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, r.table)

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRow(ctx, query,
		record.NotificationID,
		record.Recipient,
		record.Subject,
		record.Message,
		record.Platform,
		record.Status,
		record.RetryCount,
		record.ServiceType,
		record.CreatedAt,
	).Scan(&record.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return entity.ErrDuplicateNotification
		}
		return fmt.Errorf("failed to create channel record: %w", err)
	}

	return nil
}

func (r *channelRecordRepository) GetByNotificationID(ctx context.Context, notificationID uuid.UUID) (*entity.ChannelRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, notification_id, recipient, subject, message, platform, status,
		       error_message, retry_count, external_id, final_status, service_type, created_at, sent_at
		FROM %s
		WHERE notification_id = $1
	`, r.table)

	var record entity.ChannelRecord
	err := r.db.QueryRow(ctx, query, notificationID).Scan(
		&record.ID,
		&record.NotificationID,
		&record.Recipient,
		&record.Subject,
		&record.Message,
		&record.Platform,
		&record.Status,
		&record.ErrorMessage,
		&record.RetryCount,
		&record.ExternalID,
		&record.FinalStatus,
		&record.ServiceType,
		&record.CreatedAt,
		&record.SentAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get channel record: %w", err)
	}

	return &record, nil
}

func (r *channelRecordRepository) UpdateRetryCount(ctx context.Context, notificationID uuid.UUID, retryCount int, errorMessage string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET retry_count = $1, error_message = $2
		WHERE notification_id = $3
	`, r.table)

	if _, err := r.db.Exec(ctx, query, retryCount, errorMessage, notificationID); err != nil {
		return fmt.Errorf("failed to update retry count: %w", err)
	}

	return nil
}

func (r *channelRecordRepository) MarkSent(ctx context.Context, notificationID uuid.UUID, sentAt time.Time, externalID *uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, sent_at = $2, external_id = $3, error_message = NULL
		WHERE notification_id = $4
	`, r.table)

	if _, err := r.db.Exec(ctx, query, entity.RecordStatusSent, sentAt, externalID, notificationID); err != nil {
		return fmt.Errorf("failed to mark record sent: %w", err)
	}

	return nil
}

func (r *channelRecordRepository) MarkFailed(ctx context.Context, notificationID uuid.UUID, errorMessage string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, error_message = $2
		WHERE notification_id = $3
	`, r.table)

	if _, err := r.db.Exec(ctx, query, entity.RecordStatusFailed, errorMessage, notificationID); err != nil {
		return fmt.Errorf("failed to mark record failed: %w", err)
	}

	return nil
}

func (r *channelRecordRepository) FindIDs(ctx context.Context, filter repository.RecordFilter) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT notification_id
		FROM %s
		WHERE ($1 = '' OR recipient ILIKE '%%' || $1 || '%%')
		  AND ($2 = '' OR status = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
	`, r.table)

	rows, err := r.db.Query(ctx, query, filter.Recipient, string(filter.Status), filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("failed to find notification ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (r *channelRecordRepository) CountByStatus(ctx context.Context, from, to time.Time) (map[entity.RecordStatus]int, error) {
	// final_status wins over status, same as the aggregated reads
	query := fmt.Sprintf(`
		SELECT COALESCE(final_status, status), COUNT(*)
		FROM %s
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY COALESCE(final_status, status)
	`, r.table)

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count records by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.RecordStatus]int)
	for rows.Next() {
		var status entity.RecordStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *channelRecordRepository) DistinctIDs(ctx context.Context, from, to time.Time) ([]uuid.UUID, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT notification_id
		FROM %s
		WHERE created_at >= $1 AND created_at <= $2
	`, r.table)

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct notification ids: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows pgx.Rows) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan notification id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
