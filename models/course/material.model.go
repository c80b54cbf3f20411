package course

import "gorm.io/gorm"

// Material is a stored-file descriptor attached to a course or a lesson.
// The bytes themselves live in the file store; StoredName is the locator.
type Material struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	LessonID     uint   `json:"lesson_id" gorm:"index"` // 0 when attached to the course itself
	Name         string `json:"name" gorm:"not null"`
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
	URL          string `json:"url"`
}
