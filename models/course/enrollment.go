package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentEnrolled   = "enrolled"
	EnrollmentInProgress = "in-progress"
	EnrollmentCompleted  = "completed"
	EnrollmentDropped    = "dropped"
)

// Enrollment tracks a user's enrollment in a course with progress.
// A (user, course) pair is unique; a duplicate enroll is rejected.
type Enrollment struct {
	gorm.Model
	UserID     uint      `json:"user_id" gorm:"index:idx_user_course,unique;not null"`
	CourseID   uint      `json:"course_id" gorm:"index:idx_user_course,unique;not null"`
	Progress   float64   `json:"progress" gorm:"default:0"`          // completion percentage (0-100)
	Status     string    `json:"status" gorm:"default:'enrolled'"`   // enrolled, in-progress, completed, dropped
	EnrolledAt time.Time `json:"enrolled_at"`
	Course     Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
