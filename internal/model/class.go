package model

import "time"

// Role is the role of a participant inside one class. It is a property of
// the membership, not of the user: the same user can be a Teacher in one
// class and a Student in another.
type Role string

const (
	RoleTeacher    Role = "Teacher"
	RoleSubTeacher Role = "SubTeacher"
	RoleStudent    Role = "Student"
)

// Class as returned by the server. Role is filled per-request for the user
// the listing was made for. IsDeleted marks an archived class; archived
// classes stay on the server and can be restored.
type Class struct {
	ID          int64     `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Section     string    `json:"section,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	Room        string    `json:"room,omitempty"`
	ClassCode   string    `json:"classCode"`
	Role        Role      `json:"role,omitempty"`
	IsDeleted   bool      `json:"isDeleted"`
	CreatedBy   int64     `json:"createdBy,omitempty"`
	CreatedDate time.Time `json:"createdDate"`
}

// Participant is one row of a class roster.
type Participant struct {
	UserID int64  `json:"userId" validate:"required"`
	Name   string `json:"name"`
	Role   Role   `json:"role" validate:"required,oneof=Teacher SubTeacher Student"`
}

// ClassDetail is one row of the aggregated class details view.
type ClassDetail struct {
	ClassID      int64  `json:"classId" validate:"required"`
	Name         string `json:"name"`
	Section      string `json:"section,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Room         string `json:"room,omitempty"`
	TeacherName  string `json:"teacherName"`
	StudentCount int    `json:"studentCount"`
}

// PartitionByArchived splits classes into active and archived lists. Every
// class lands in exactly one of the two.
func PartitionByArchived(classes []Class) (active, archived []Class) {
	for _, c := range classes {
		if c.IsDeleted {
			archived = append(archived, c)
		} else {
			active = append(active, c)
		}
	}
	return active, archived
}
