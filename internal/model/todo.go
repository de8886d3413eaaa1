package model

import "time"

// TodoStatus is computed by the server from due dates and submissions. The
// client never changes it.
type TodoStatus string

const (
	TodoAssigned TodoStatus = "Assigned"
	TodoMissed   TodoStatus = "Missed"
	TodoDone     TodoStatus = "Done"
)

// Todo is one pending piece of class work for a user.
type Todo struct {
	ID          int64      `json:"id" validate:"required"`
	UserID      int64      `json:"userId"`
	ClassWorkID int64      `json:"classWorkId"`
	Title       string     `json:"title"`
	Status      TodoStatus `json:"status" validate:"required,oneof=Assigned Missed Done"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// GroupByStatus buckets todos for the tabbed todo view.
func GroupByStatus(todos []Todo) map[TodoStatus][]Todo {
	grouped := make(map[TodoStatus][]Todo)
	for _, t := range todos {
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	return grouped
}
