package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// AnnouncementService posts to and reads a class stream.
type AnnouncementService struct {
	client *transport.Client
	logger *zap.Logger
}

func NewAnnouncementService(client *transport.Client, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{client: client, logger: logger}
}

type CreateAnnouncementRequest struct {
	Title           string `json:"title,omitempty"`
	Message         string `json:"message" validate:"required"`
	CreatedByUserID int64  `json:"createdByUserId" validate:"required"`
}

// Create posts an announcement on the class stream.
func (s *AnnouncementService) Create(ctx context.Context, classID int64, req CreateAnnouncementRequest) (model.Announcement, error) {
	if err := validate.Struct(req); err != nil {
		return model.Announcement{}, fmt.Errorf("validate create announcement request: %w", err)
	}

	var out model.Announcement
	if err := s.client.Do(ctx, http.MethodPost, fmt.Sprintf("/classes/%d/announcements", classID), req, &out); err != nil {
		return model.Announcement{}, err
	}
	if err := checkResponse(&out); err != nil {
		return model.Announcement{}, err
	}
	s.logger.Info("Announcement posted", zap.Int64("class_id", classID), zap.Int64("announcement_id", out.ID))
	return out, nil
}

// List returns the class stream, newest first.
func (s *AnnouncementService) List(ctx context.Context, classID int64) ([]model.Announcement, error) {
	var out []model.Announcement
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d/announcements", classID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}
