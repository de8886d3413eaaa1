package apitest

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wannazaw/classroom-client/internal/model"
)

func (s *Server) handleCreateClass(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  int64  `json:"userId"`
		Name    string `json:"name"`
		Section string `json:"section"`
		Subject string `json:"subject"`
		Room    string `json:"room"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "Class name is required")
		return
	}

	ownerID := req.UserID
	if ownerID == 0 {
		ownerID = userIDFrom(r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := &classRecord{
		class: model.Class{
			ID:          s.newID(),
			Name:        req.Name,
			Section:     req.Section,
			Subject:     req.Subject,
			Room:        req.Room,
			ClassCode:   newClassCode(),
			CreatedBy:   ownerID,
			CreatedDate: time.Now().UTC(),
		},
		ownerID:      ownerID,
		participants: map[int64]model.Role{ownerID: model.RoleTeacher},
	}
	s.classes[record.class.ID] = record
	s.classesByCode[record.class.ClassCode] = record

	writeJSON(w, http.StatusCreated, s.classFor(record, ownerID))
}

func (s *Server) handleListClassesByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := urlID(r, "userId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	classes := []model.Class{}
	for _, record := range s.classes {
		if _, ok := record.participants[userID]; ok {
			classes = append(classes, s.classFor(record, userID))
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	writeJSON(w, http.StatusOK, classes)
}

func (s *Server) handleGetClass(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.classFor(record, userIDFrom(r)))
}

func (s *Server) handleUpdateClass(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name"`
		Section string `json:"section"`
		Subject string `json:"subject"`
		Room    string `json:"room"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "Class name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ownerID != userIDFrom(r) {
		writeMessage(w, http.StatusForbidden, "Only the class owner can update a class")
		return
	}

	record.class.Name = req.Name
	record.class.Section = req.Section
	record.class.Subject = req.Subject
	record.class.Room = req.Room
	writeJSON(w, http.StatusOK, s.classFor(record, userIDFrom(r)))
}

func (s *Server) handleArchiveClass(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, true)
}

func (s *Server) handleRestoreClass(w http.ResponseWriter, r *http.Request) {
	s.setArchived(w, r, false)
}

func (s *Server) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ownerID != userIDFrom(r) {
		writeMessage(w, http.StatusForbidden, "Only the class owner can archive or restore a class")
		return
	}
	record.class.IsDeleted = archived
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteClass(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ownerID != userIDFrom(r) {
		writeMessage(w, http.StatusForbidden, "Only the class owner can delete a class")
		return
	}

	delete(s.classes, record.class.ID)
	delete(s.classesByCode, record.class.ClassCode)
	delete(s.announcements, record.class.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	studentID, err := urlID(r, "studentId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.classesByCode[code]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Class not found")
		return
	}
	if record.class.IsDeleted {
		writeMessage(w, http.StatusConflict, "Cannot join an archived class")
		return
	}
	if _, enrolled := record.participants[studentID]; enrolled {
		writeMessage(w, http.StatusConflict, "Already enrolled in this class")
		return
	}

	record.participants[studentID] = model.RoleStudent
	writeJSON(w, http.StatusOK, map[string]string{"message": "Enrolled successfully"})
}

func (s *Server) handleUnenroll(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}
	studentID, err := urlID(r, "studentId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if studentID == record.ownerID {
		writeMessage(w, http.StatusConflict, "The class owner cannot be removed")
		return
	}
	if _, enrolled := record.participants[studentID]; !enrolled {
		writeMessage(w, http.StatusNotFound, "Participant not found")
		return
	}
	delete(record.participants, studentID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleParticipants(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	participants := []model.Participant{}
	for userID, role := range record.participants {
		name := ""
		if u, ok := s.users[userID]; ok {
			name = u.user.Name
		}
		participants = append(participants, model.Participant{
			UserID: userID,
			Name:   name,
			Role:   role,
		})
	}
	sort.Slice(participants, func(i, j int) bool {
		if participants[i].Role != participants[j].Role {
			return roleRank(participants[i].Role) < roleRank(participants[j].Role)
		}
		return participants[i].UserID < participants[j].UserID
	})
	writeJSON(w, http.StatusOK, participants)
}

func (s *Server) handleClassDetails(w http.ResponseWriter, r *http.Request) {
	record, ok := s.classFromURL(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	teacherName := ""
	if owner, ok := s.users[record.ownerID]; ok {
		teacherName = owner.user.Name
	}
	students := 0
	for _, role := range record.participants {
		if role == model.RoleStudent {
			students++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"details": []model.ClassDetail{{
			ClassID:      record.class.ID,
			Name:         record.class.Name,
			Section:      record.class.Section,
			Subject:      record.class.Subject,
			Room:         record.class.Room,
			TeacherName:  teacherName,
			StudentCount: students,
		}},
	})
}

// classFor copies the stored class and fills Role for the given user.
func (s *Server) classFor(record *classRecord, userID int64) model.Class {
	c := record.class
	c.Role = record.participants[userID]
	return c
}

// classFromURL resolves {classId} or writes the 400/404 itself. Callers must
// not hold the server mutex.
func (s *Server) classFromURL(w http.ResponseWriter, r *http.Request) (*classRecord, bool) {
	classID, err := urlID(r, "classId")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	s.mu.Lock()
	record, ok := s.classes[classID]
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Class not found")
		return nil, false
	}
	return record, true
}

func roleRank(role model.Role) int {
	switch role {
	case model.RoleTeacher:
		return 0
	case model.RoleSubTeacher:
		return 1
	default:
		return 2
	}
}
