package pgsql

import (
	"context"
	"fmt"

	"github.com/bluestar-trading/erp_backend/internal/apperrors"
	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	portsrepo "github.com/bluestar-trading/erp_backend/internal/core/ports/repositories"
	"github.com/bluestar-trading/erp_backend/internal/models"
	"github.com/bluestar-trading/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.NotificationRepository = (*PgxNotificationRepository)(nil)

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	m := mapping.ToModelNotification(n)
	query := `
		INSERT INTO notifications (notification_id, user_id, title, message, type, link, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query, m.NotificationID, m.UserID, m.Title, m.Message, m.Type, m.Link, m.IsRead, m.CreatedAt)
	return translateError(err, "save notification")
}

func (r *PgxNotificationRepository) ListNotificationsForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]domain.Notification, error) {
	limit, _ = normalizePage(limit, 0)
	query := `
		SELECT notification_id, user_id, title, message, type, link, is_read, created_at
		FROM notifications
		WHERE (user_id = $1 OR user_id IS NULL) AND (NOT $2 OR NOT is_read)
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	out := []domain.Notification{}
	for rows.Next() {
		var m models.Notification
		if err := rows.Scan(&m.NotificationID, &m.UserID, &m.Title, &m.Message, &m.Type, &m.Link, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		out = append(out, mapping.ToDomainNotification(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return out, nil
}

// MarkNotificationRead also accepts broadcast rows, which any user may dismiss.
func (r *PgxNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string, userID string) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE notification_id = $1 AND (user_id = $2 OR user_id IS NULL);`
	cmdTag, err := r.Pool.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return translateError(err, "mark notification "+notificationID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("notification %s: %w", notificationID, apperrors.ErrNotFound)
	}
	return nil
}
