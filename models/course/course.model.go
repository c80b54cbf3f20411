package course

import "gorm.io/gorm"

// Course statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusCompleted = "completed"
)

// Course represents a learning course owned by an instructor
type Course struct {
	gorm.Model
	Name             string     `json:"name" gorm:"not null"`
	Description      string     `json:"description"`
	InstructorID     uint       `json:"instructor_id" gorm:"index;not null"`
	Instructor       string     `json:"instructor"` // display name, denormalized
	Duration         int        `json:"duration" gorm:"default:1"` // duration in weeks
	EnrolledStudents int        `json:"enrolled_students" gorm:"default:0"`
	Status           string     `json:"status" gorm:"default:'active'"` // active, inactive, completed
	Lessons          []Lesson   `json:"lessons,omitempty"`
	Materials        []Material `json:"materials,omitempty"`
}

// LessonCount returns the number of lessons; derived, never persisted
func (c *Course) LessonCount() int {
	return len(c.Lessons)
}

// TotalLessonDuration sums lesson durations in minutes; derived, never persisted
func (c *Course) TotalLessonDuration() int {
	total := 0
	for _, l := range c.Lessons {
		total += l.Duration
	}
	return total
}
