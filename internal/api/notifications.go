package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// NotificationService reads a user's notifications.
type NotificationService struct {
	client *transport.Client
	logger *zap.Logger
}

func NewNotificationService(client *transport.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{client: client, logger: logger}
}

// ListByUser returns all notifications for the user, read and unread.
func (s *NotificationService) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	var out []model.Notification
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/notifications/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}
