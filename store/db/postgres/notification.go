package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/binarylab/projecthub/store"
)

func (d *DB) CreateNotification(ctx context.Context, create *store.Notification) (*store.Notification, error) {
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}

	stmt := `
		INSERT INTO notification (user_id, project_id, type, message, is_read, created_ts)
		VALUES (` + placeholders(6) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UserID,
		create.ProjectID,
		create.Type,
		create.Message,
		create.IsRead,
		create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create notification")
	}

	return create, nil
}

func (d *DB) ListNotifications(ctx context.Context, find *store.FindNotification) ([]*store.Notification, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.ProjectID != nil {
		where, args = append(where, "project_id = "+placeholder(len(args)+1)), append(args, *find.ProjectID)
	}
	if find.Type != nil {
		where, args = append(where, "type = "+placeholder(len(args)+1)), append(args, string(*find.Type))
	}
	if find.IsRead != nil {
		where, args = append(where, "is_read = "+placeholder(len(args)+1)), append(args, *find.IsRead)
	}

	query := `
		SELECT id, user_id, project_id, type, message, is_read, created_ts
		FROM notification
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC
	`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	defer rows.Close()

	list := []*store.Notification{}
	for rows.Next() {
		var notification store.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.ProjectID,
			&notification.Type,
			&notification.Message,
			&notification.IsRead,
			&notification.CreatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification")
		}
		list = append(list, &notification)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) UpdateNotification(ctx context.Context, update *store.UpdateNotification) error {
	if update.IsRead == nil {
		return nil
	}
	stmt := `UPDATE notification SET is_read = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, *update.IsRead, update.ID); err != nil {
		return errors.Wrap(err, "failed to update notification")
	}
	return nil
}
