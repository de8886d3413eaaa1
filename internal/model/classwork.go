package model

import "time"

// Topic groups class work inside a class. Topics belong to the teacher who
// created them and can be reused across their class work.
type Topic struct {
	ID          int64  `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	OwnerUserID int64  `json:"ownerUserId"`
}

// FileType tells where an attachment lives.
type FileType string

const (
	FileTypeDrive   FileType = "Drive"
	FileTypeYouTube FileType = "YouTube"
	FileTypeUpload  FileType = "Upload"
	FileTypeLink    FileType = "Link"
)

// Attachment references a file attached to class work. Drive, YouTube and
// Link attachments carry a URL, uploads carry a file path or name.
type Attachment struct {
	FileType FileType `json:"fileType" validate:"oneof=Drive YouTube Upload Link"`
	FileURL  string   `json:"fileUrl,omitempty"`
	FilePath string   `json:"filePath,omitempty"`
	FileName string   `json:"fileName,omitempty"`
}

// Assignment is graded class work.
type Assignment struct {
	ID        int64     `json:"id" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Points    *int      `json:"points,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Material is ungraded class work, shared reading or reference files.
type Material struct {
	ID          int64     `json:"id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TopicWithWork is the class-work view of one topic: its materials and
// assignments together, the way the class work page renders them.
type TopicWithWork struct {
	TopicID     int64        `json:"topicId" validate:"required"`
	TopicName   string       `json:"topicName" validate:"required"`
	Materials   []Material   `json:"materials"`
	Assignments []Assignment `json:"assignments"`
}
