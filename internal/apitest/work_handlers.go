package apitest

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/wannazaw/classroom-client/internal/model"
)

// defaultTopicTitle is where class work lands when no topic was chosen.
const defaultTopicTitle = "Classwork"

var (
	errTopicTitle    = errors.New("new topic title is required")
	errTopicNotFound = errors.New("selected topic not found")
)

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		OwnerUserID int64  `json:"ownerUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Topic title is required")
		return
	}

	ownerID := req.OwnerUserID
	if ownerID == 0 {
		ownerID = userIDFrom(r)
	}

	s.mu.Lock()
	topic := model.Topic{ID: s.newID(), Title: req.Title, OwnerUserID: ownerID}
	s.topics[topic.ID] = topic
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, topic)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("userId"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	topics := []model.Topic{}
	for _, topic := range s.topics {
		if topic.OwnerUserID == userID {
			topics = append(topics, topic)
		}
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		AssignmentTitle     string             `json:"assignmentTitle"`
		Instructions        string             `json:"instructions"`
		Points              int                `json:"points"`
		DueDate             *time.Time         `json:"dueDate"`
		CreateNewTopic      bool               `json:"createNewTopic"`
		NewTopicTitle       string             `json:"newTopicTitle"`
		SelectedTopicID     *int64             `json:"selectedTopicId"`
		AllowLateSubmission bool               `json:"allowLateSubmission"`
		StudentIDs          []int64            `json:"studentIds"`
		Attachments         []model.Attachment `json:"attachments"`
		CreatedByUserID     int64              `json:"createdByUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AssignmentTitle == "" {
		writeMessage(w, http.StatusBadRequest, "Assignment title is required")
		return
	}

	creatorID := userIDFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	role := record.participants[creatorID]
	if role != model.RoleTeacher && role != model.RoleSubTeacher {
		writeMessage(w, http.StatusForbidden, "Only teachers can create assignments")
		return
	}

	topicID, err := s.resolveTopic(record, creatorID, req.CreateNewTopic, req.NewTopicTitle, req.SelectedTopicID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	points := req.Points
	assignment := model.Assignment{
		ID:        s.newID(),
		Title:     req.AssignmentTitle,
		Points:    &points,
		DueDate:   req.DueDate,
		CreatedAt: time.Now().UTC(),
	}
	s.assignments = append(s.assignments, &assignmentRecord{
		assignment: assignment,
		classID:    record.class.ID,
		topicID:    topicID,
	})

	// The server fans the new work out to the assigned students.
	assigned := req.StudentIDs
	if len(assigned) == 0 {
		for userID, role := range record.participants {
			if role == model.RoleStudent {
				assigned = append(assigned, userID)
			}
		}
	}
	for _, studentID := range assigned {
		s.todos[studentID] = append(s.todos[studentID], model.Todo{
			ID:          s.newID(),
			UserID:      studentID,
			ClassWorkID: assignment.ID,
			Title:       assignment.Title,
			Status:      model.TodoAssigned,
			DueDate:     req.DueDate,
		})
		s.notifications[studentID] = append(s.notifications[studentID], model.Notification{
			ID:          s.newID(),
			UserID:      studentID,
			Type:        model.NotificationAssignment,
			ReferenceID: assignment.ID,
			Message:     "New assignment: " + assignment.Title,
			CreatedAt:   time.Now().UTC(),
		})
	}

	writeJSON(w, http.StatusCreated, assignment)
}

// resolveTopic picks the topic new class work is filed under: a freshly
// created one, an existing one, or a lazily created per-class default.
func (s *Server) resolveTopic(record *classRecord, creatorID int64, createNew bool, newTitle string, selectedID *int64) (int64, error) {
	if createNew {
		if newTitle == "" {
			return 0, errTopicTitle
		}
		topic := model.Topic{ID: s.newID(), Title: newTitle, OwnerUserID: creatorID}
		s.topics[topic.ID] = topic
		return topic.ID, nil
	}
	if selectedID != nil {
		if _, ok := s.topics[*selectedID]; !ok {
			return 0, errTopicNotFound
		}
		return *selectedID, nil
	}
	for id, topic := range s.topics {
		if topic.OwnerUserID == record.ownerID && topic.Title == defaultTopicTitle {
			return id, nil
		}
	}
	topic := model.Topic{ID: s.newID(), Title: defaultTopicTitle, OwnerUserID: record.ownerID}
	s.topics[topic.ID] = topic
	return topic.ID, nil
}

func (s *Server) handleTopicsWithWork(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byTopic := make(map[int64]*model.TopicWithWork)
	topicIDs := []int64{}
	get := func(topicID int64) *model.TopicWithWork {
		if tw, ok := byTopic[topicID]; ok {
			return tw
		}
		tw := &model.TopicWithWork{
			TopicID:     topicID,
			TopicName:   s.topics[topicID].Title,
			Materials:   []model.Material{},
			Assignments: []model.Assignment{},
		}
		byTopic[topicID] = tw
		topicIDs = append(topicIDs, topicID)
		return tw
	}

	for _, m := range s.materials {
		if m.classID == record.class.ID {
			tw := get(m.topicID)
			tw.Materials = append(tw.Materials, m.material)
		}
	}
	for _, a := range s.assignments {
		if a.classID == record.class.ID {
			tw := get(a.topicID)
			tw.Assignments = append(tw.Assignments, a.assignment)
		}
	}

	sort.Slice(topicIDs, func(i, j int) bool { return topicIDs[i] < topicIDs[j] })
	out := []model.TopicWithWork{}
	for _, id := range topicIDs {
		out = append(out, *byTopic[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		Title           string `json:"title"`
		Message         string `json:"message"`
		CreatedByUserID int64  `json:"createdByUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeMessage(w, http.StatusBadRequest, "Announcement message is required")
		return
	}

	authorID := userIDFrom(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, participant := record.participants[authorID]; !participant {
		writeMessage(w, http.StatusForbidden, "Only class participants can post announcements")
		return
	}

	announcement := model.Announcement{
		ID:        s.newID(),
		ClassID:   record.class.ID,
		Title:     req.Title,
		Message:   req.Message,
		CreatedBy: authorID,
		CreatedAt: time.Now().UTC(),
	}
	s.announcements[record.class.ID] = append(s.announcements[record.class.ID], announcement)

	for userID := range record.participants {
		if userID == authorID {
			continue
		}
		s.notifications[userID] = append(s.notifications[userID], model.Notification{
			ID:          s.newID(),
			UserID:      userID,
			Type:        model.NotificationAnnouncement,
			ReferenceID: announcement.ID,
			Message:     "New announcement in " + record.class.Name,
			CreatedAt:   time.Now().UTC(),
		})
	}

	writeJSON(w, http.StatusCreated, announcement)
}

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := append([]model.Announcement{}, s.announcements[record.class.ID]...)
	sort.Slice(stream, func(i, j int) bool { return stream[i].ID > stream[j].ID })
	writeJSON(w, http.StatusOK, stream)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r, "userId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]model.Notification{}, s.notifications[userID]...))
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r, "userId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]model.Todo{}, s.todos[userID]...))
}
