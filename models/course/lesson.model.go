package course

import "gorm.io/gorm"

// Lesson represents a lesson within a course. Order is assigned at append
// time (current count + 1) and never renumbered after a delete.
type Lesson struct {
	gorm.Model
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Content     string     `json:"content" gorm:"type:text"`
	Order       int        `json:"order" gorm:"column:lesson_order;default:0"`
	Duration    int        `json:"duration" gorm:"default:1"` // duration in minutes
	VideoURL    string     `json:"video_url"`
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	Materials   []Material `json:"materials,omitempty" gorm:"foreignKey:LessonID"`
}
