package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// TopicService manages the topics a teacher files class work under.
type TopicService struct {
	client *transport.Client
	logger *zap.Logger
}

func NewTopicService(client *transport.Client, logger *zap.Logger) *TopicService {
	return &TopicService{client: client, logger: logger}
}

type CreateTopicRequest struct {
	Title       string `json:"title" validate:"required"`
	OwnerUserID int64  `json:"ownerUserId" validate:"required"`
}

// Create makes a new topic owned by the given teacher.
func (s *TopicService) Create(ctx context.Context, req CreateTopicRequest) (model.Topic, error) {
	if err := validate.Struct(req); err != nil {
		return model.Topic{}, fmt.Errorf("validate create topic request: %w", err)
	}

	var out model.Topic
	if err := s.client.Do(ctx, http.MethodPost, "/topics", req, &out); err != nil {
		return model.Topic{}, err
	}
	if err := checkResponse(&out); err != nil {
		return model.Topic{}, err
	}
	s.logger.Info("Topic created", zap.Int64("topic_id", out.ID), zap.String("title", out.Title))
	return out, nil
}

// ListByUser returns every topic the user owns.
func (s *TopicService) ListByUser(ctx context.Context, userID int64) ([]model.Topic, error) {
	query := url.Values{"userId": {strconv.FormatInt(userID, 10)}}
	var out []model.Topic
	if err := s.client.Do(ctx, http.MethodGet, "/topics?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}
