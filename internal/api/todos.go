package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// TodoService reads a user's todo list. Statuses are server-computed; the
// client only displays them.
type TodoService struct {
	client *transport.Client
	logger *zap.Logger
}

func NewTodoService(client *transport.Client, logger *zap.Logger) *TodoService {
	return &TodoService{client: client, logger: logger}
}

// ListByUser returns all todos for the user across their classes.
func (s *TodoService) ListByUser(ctx context.Context, userID int64) ([]model.Todo, error) {
	var out []model.Todo
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/todos/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}
