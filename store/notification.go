package store

import "context"

// NotificationType discriminates notification payloads.
type NotificationType string

const (
	// NotificationTypeDuplicateWarning is written when detection flags a
	// submission as a suspected duplicate.
	NotificationTypeDuplicateWarning NotificationType = "DUPLICATE_WARNING"
	NotificationTypeStatusChange     NotificationType = "STATUS_CHANGE"
)

// Notification is one message for a user, e.g. "similar projects found".
type Notification struct {
	ID        int32
	UserID    int32
	ProjectID int32
	Type      NotificationType
	Message   string
	IsRead    bool
	CreatedTs int64
}

// FindNotification is the find condition for notifications.
type FindNotification struct {
	UserID    *int32
	ProjectID *int32
	Type      *NotificationType
	IsRead    *bool
	Limit     *int
}

// UpdateNotification is the update payload for notifications.
type UpdateNotification struct {
	ID     int32
	IsRead *bool
}

func (s *Store) CreateNotification(ctx context.Context, create *Notification) (*Notification, error) {
	return s.driver.CreateNotification(ctx, create)
}

func (s *Store) ListNotifications(ctx context.Context, find *FindNotification) ([]*Notification, error) {
	return s.driver.ListNotifications(ctx, find)
}

func (s *Store) UpdateNotification(ctx context.Context, update *UpdateNotification) error {
	return s.driver.UpdateNotification(ctx, update)
}
