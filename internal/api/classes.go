package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/wannazaw/classroom-client/internal/model"
	"github.com/wannazaw/classroom-client/internal/transport"
)

// ErrInvalidClassCode is returned before any network call when a join code
// does not look like a class code.
var ErrInvalidClassCode = errors.New("class code must be 5-8 letters or numbers")

// ClassService covers the class resource: lifecycle, enrollment, roster and
// the class-work views.
type ClassService struct {
	client *transport.Client
	logger *zap.Logger
}

func NewClassService(client *transport.Client, logger *zap.Logger) *ClassService {
	return &ClassService{client: client, logger: logger}
}

type CreateClassRequest struct {
	UserID  int64  `json:"userId" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Section string `json:"section,omitempty"`
	Subject string `json:"subject,omitempty"`
	Room    string `json:"room,omitempty"`
}

type UpdateClassRequest struct {
	Name    string `json:"name" validate:"required"`
	Section string `json:"section,omitempty"`
	Subject string `json:"subject,omitempty"`
	Room    string `json:"room,omitempty"`
}

type EnrollmentResponse struct {
	Message string `json:"message" validate:"required"`
}

// Create makes a new class owned by the given user.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (model.Class, error) {
	if err := validate.Struct(req); err != nil {
		return model.Class{}, fmt.Errorf("validate create class request: %w", err)
	}

	var out model.Class
	if err := s.client.Do(ctx, http.MethodPost, "/classes", req, &out); err != nil {
		return model.Class{}, err
	}
	if err := checkResponse(&out); err != nil {
		return model.Class{}, err
	}
	s.logger.Info("Class created", zap.Int64("class_id", out.ID), zap.String("class_code", out.ClassCode))
	return out, nil
}

// GetByID fetches one class.
func (s *ClassService) GetByID(ctx context.Context, classID int64) (model.Class, error) {
	var out model.Class
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d", classID), nil, &out); err != nil {
		return model.Class{}, err
	}
	if err := checkResponse(&out); err != nil {
		return model.Class{}, err
	}
	return out, nil
}

// ListByUser returns every class the user participates in, archived ones
// included, each carrying the user's role in it.
func (s *ClassService) ListByUser(ctx context.Context, userID int64) ([]model.Class, error) {
	var out []model.Class
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update edits a class. Only the owner may call it.
func (s *ClassService) Update(ctx context.Context, classID int64, req UpdateClassRequest) (model.Class, error) {
	if err := validate.Struct(req); err != nil {
		return model.Class{}, fmt.Errorf("validate update class request: %w", err)
	}

	var out model.Class
	if err := s.client.Do(ctx, http.MethodPut, fmt.Sprintf("/classes/%d", classID), req, &out); err != nil {
		return model.Class{}, err
	}
	if err := checkResponse(&out); err != nil {
		return model.Class{}, err
	}
	return out, nil
}

// Archive soft-deletes a class. It disappears from the active listing and
// shows up on the archived one until restored.
func (s *ClassService) Archive(ctx context.Context, classID int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/classes/%d", classID), nil, nil)
}

// Restore brings an archived class back to the active listing.
func (s *ClassService) Restore(ctx context.Context, classID int64) error {
	return s.client.Do(ctx, http.MethodPost, fmt.Sprintf("/classes/%d/restore", classID), nil, nil)
}

// Delete permanently removes a class. There is no undo.
func (s *ClassService) Delete(ctx context.Context, classID int64) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/classes/%d/actual-delete", classID), nil, nil)
}

// Enroll joins the student to the class behind the code. Codes that do not
// match the 5-8 alphanumeric pattern are rejected without a network call.
func (s *ClassService) Enroll(ctx context.Context, classCode string, studentID int64) (EnrollmentResponse, error) {
	if err := validate.Var(classCode, "required,alphanum,min=5,max=8"); err != nil {
		return EnrollmentResponse{}, ErrInvalidClassCode
	}

	var out EnrollmentResponse
	path := fmt.Sprintf("/classes/code/%s/enroll/%d", url.PathEscape(classCode), studentID)
	if err := s.client.Do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return EnrollmentResponse{}, err
	}
	if err := checkResponse(out); err != nil {
		return EnrollmentResponse{}, err
	}
	s.logger.Info("Enrolled in class", zap.String("class_code", classCode), zap.Int64("student_id", studentID))
	return out, nil
}

// Unenroll removes a student from the class roster.
func (s *ClassService) Unenroll(ctx context.Context, classID, studentID int64) error {
	path := fmt.Sprintf("/classes/%d/participants/students/%d", classID, studentID)
	return s.client.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Participants returns the class roster, teachers and students together.
func (s *ClassService) Participants(ctx context.Context, classID int64) ([]model.Participant, error) {
	var out []model.Participant
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d/participants", classID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}

// TopicsWithWork returns the class-work page view: every topic of the class
// with its materials and assignments.
func (s *ClassService) TopicsWithWork(ctx context.Context, classID int64) ([]model.TopicWithWork, error) {
	path := fmt.Sprintf("/classes/%d/topics-with-materials-assignments", classID)
	var out []model.TopicWithWork
	if err := s.client.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClassWorks is the flat class-work listing some deployments expose next to
// the topic view. Same shape, different endpoint.
func (s *ClassService) ClassWorks(ctx context.Context, classID int64) ([]model.TopicWithWork, error) {
	var out []model.TopicWithWork
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d/class-works", classID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Details returns the aggregated details card for a class.
func (s *ClassService) Details(ctx context.Context, classID int64) ([]model.ClassDetail, error) {
	var out struct {
		Details []model.ClassDetail `json:"details"`
	}
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/classes/%d/details", classID), nil, &out); err != nil {
		return nil, err
	}
	if err := checkResponseList(out.Details); err != nil {
		return nil, err
	}
	return out.Details, nil
}
