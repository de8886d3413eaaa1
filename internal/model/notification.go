package model

import "time"

// NotificationType tells what the notification references.
type NotificationType string

const (
	NotificationAssignment   NotificationType = "Assignment"
	NotificationAnnouncement NotificationType = "Announcement"
	NotificationMessage      NotificationType = "Message"
	NotificationGrade        NotificationType = "Grade"
)

// Notification for a user. ReferenceID points at the entity of Type.
type Notification struct {
	ID          int64            `json:"id" validate:"required"`
	UserID      int64            `json:"userId" validate:"required"`
	Type        NotificationType `json:"type" validate:"required,oneof=Assignment Announcement Message Grade"`
	ReferenceID int64            `json:"referenceId"`
	Message     string           `json:"message,omitempty"`
	IsRead      bool             `json:"isRead"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// PartitionByRead splits notifications into unread and read lists, the way
// the notifications page shows them.
func PartitionByRead(notifications []Notification) (unread, read []Notification) {
	for _, n := range notifications {
		if n.IsRead {
			read = append(read, n)
		} else {
			unread = append(unread, n)
		}
	}
	return unread, read
}
