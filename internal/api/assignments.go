package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// AssignmentService creates class work under a class.
type AssignmentService struct {
	client *transport.Client
	logger *zap.Logger
}

func NewAssignmentService(client *transport.Client, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{client: client, logger: logger}
}

// CreateAssignmentRequest is the assignment-create form payload. The topic
// is either an existing one (SelectedTopicID) or a fresh one created in the
// same call (CreateNewTopic + NewTopicTitle). A nil StudentIDs assigns the
// work to the whole class.
type CreateAssignmentRequest struct {
	AssignmentTitle     string             `json:"assignmentTitle" validate:"required"`
	Instructions        string             `json:"instructions,omitempty"`
	Points              int                `json:"points" validate:"min=0,max=100"`
	DueDate             *time.Time         `json:"dueDate,omitempty"`
	CreateNewTopic      bool               `json:"createNewTopic"`
	NewTopicTitle       string             `json:"newTopicTitle,omitempty" validate:"required_if=CreateNewTopic true"`
	SelectedTopicID     *int64             `json:"selectedTopicId,omitempty"`
	AllowLateSubmission bool               `json:"allowLateSubmission"`
	StudentIDs          []int64            `json:"studentIds,omitempty"`
	Attachments         []model.Attachment `json:"attachments,omitempty" validate:"dive"`
	CreatedByUserID     int64              `json:"createdByUserId" validate:"required"`
}

// Create posts a new assignment into the class. The server files it under
// the topic, fans out todos and notifications to the assigned students, and
// returns the created assignment.
func (s *AssignmentService) Create(ctx context.Context, classID int64, req CreateAssignmentRequest) (model.Assignment, error) {
	if err := validate.Struct(req); err != nil {
		return model.Assignment{}, fmt.Errorf("validate create assignment request: %w", err)
	}

	var out model.Assignment
	if err := s.client.Do(ctx, http.MethodPost, fmt.Sprintf("/classes/%d/assignments", classID), req, &out); err != nil {
		return model.Assignment{}, err
	}
	if err := checkResponse(&out); err != nil {
		return model.Assignment{}, err
	}
	s.logger.Info("Assignment created",
		zap.Int64("class_id", classID),
		zap.Int64("assignment_id", out.ID),
		zap.String("title", out.Title),
	)
	return out, nil
}
