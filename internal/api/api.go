// Package api holds the typed domain modules of the classroom client, one
// per server resource. Each operation maps to exactly one HTTP call: inputs
// are validated before the request goes out, response bodies are checked
// against their expected shape right after decoding, and every failure comes
// back as an error for the caller to present. No retries, no caching.
package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/session"
	"github.com/wannazaw/classroom-client/internal/transport"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client bundles the domain modules over one shared transport.
type Client struct {
	Auth          *AuthService
	Classes       *ClassService
	Topics        *TopicService
	Assignments   *AssignmentService
	Announcements *AnnouncementService
	Notifications *NotificationService
	Todos         *TodoService
}

func New(t *transport.Client, store *session.Store, logger *zap.Logger) *Client {
	return &Client{
		Auth:          NewAuthService(t, store, logger),
		Classes:       NewClassService(t, logger),
		Topics:        NewTopicService(t, logger),
		Assignments:   NewAssignmentService(t, logger),
		Announcements: NewAnnouncementService(t, logger),
		Notifications: NewNotificationService(t, logger),
		Todos:         NewTodoService(t, logger),
	}
}

// checkResponse verifies a decoded response struct against its validate
// tags, so a malformed server body fails loudly instead of leaking zero
// values into the caller.
func checkResponse(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", transport.ErrBadResponse, err)
	}
	return nil
}

// checkResponseList does the same for every element of a list response.
func checkResponseList[T any](items []T) error {
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return fmt.Errorf("%w: item %d: %v", transport.ErrBadResponse, i, err)
		}
	}
	return nil
}
