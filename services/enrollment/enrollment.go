package enrollmentService

import (
	"errors"
	courseModels "lms/models/course"
	"time"

	"gorm.io/gorm"
)

var (
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")
	ErrNotEnrolled     = errors.New("user is not enrolled in this course")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrInvalidStatus   = errors.New("invalid enrollment status")
)

var validStatuses = map[string]bool{
	courseModels.EnrollmentEnrolled:   true,
	courseModels.EnrollmentInProgress: true,
	courseModels.EnrollmentCompleted:  true,
	courseModels.EnrollmentDropped:    true,
}

// Enroll creates an enrollment record for the (user, course) pair and
// increments the course counter. Both writes run in one transaction so a
// failure leaves neither applied.
func Enroll(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment

	err := db.Transaction(func(tx *gorm.DB) error {
		var existing courseModels.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
		if err == nil {
			return ErrAlreadyEnrolled
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		enrollment = courseModels.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			Progress:   0,
			Status:     courseModels.EnrollmentEnrolled,
			EnrolledAt: time.Now(),
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		return tx.Model(&courseModels.Course{}).Where("id = ?", courseID).
			UpdateColumn("enrolled_students", gorm.Expr("enrolled_students + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Unenroll removes the enrollment record and decrements the course counter,
// floored at 0. The record is hard-deleted so the (user, course) unique
// index allows a later re-enroll.
func Unenroll(db *gorm.DB, userID, courseID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var enrollment courseModels.Enrollment
		err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotEnrolled
		}
		if err != nil {
			return err
		}

		if err := tx.Unscoped().Delete(&enrollment).Error; err != nil {
			return err
		}

		return tx.Model(&courseModels.Course{}).Where("id = ?", courseID).
			UpdateColumn("enrolled_students",
				gorm.Expr("CASE WHEN enrolled_students > 0 THEN enrolled_students - 1 ELSE 0 END")).Error
	})
}

// UpdateProgress applies a partial update to the enrollment: only the
// supplied fields change. Out-of-range progress or an unknown status leaves
// prior state untouched.
func UpdateProgress(db *gorm.DB, userID, courseID uint, progress *float64, status *string) (*courseModels.Enrollment, error) {
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	if progress != nil && (*progress < 0 || *progress > 100) {
		return nil, ErrInvalidProgress
	}
	if status != nil && !validStatuses[*status] {
		return nil, ErrInvalidStatus
	}

	updates := map[string]interface{}{}
	if progress != nil {
		updates["progress"] = *progress
		enrollment.Progress = *progress
	}
	if status != nil {
		updates["status"] = *status
		enrollment.Status = *status
	}

	if len(updates) > 0 {
		if err := db.Model(&enrollment).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &enrollment, nil
}

// ReconcileCounters recomputes enrolled_students for every course from the
// enrollment table and corrects any drift. Returns the number of courses
// fixed. Used by the daily scheduler; the enroll/unenroll dual write is
// transactional here, but historic data may predate that.
func ReconcileCounters(db *gorm.DB) (int, error) {
	var courses []courseModels.Course
	if err := db.Find(&courses).Error; err != nil {
		return 0, err
	}

	fixed := 0
	for _, c := range courses {
		var count int64
		if err := db.Model(&courseModels.Enrollment{}).Where("course_id = ?", c.ID).Count(&count).Error; err != nil {
			return fixed, err
		}
		if int(count) == c.EnrolledStudents {
			continue
		}
		if err := db.Model(&courseModels.Course{}).Where("id = ?", c.ID).
			UpdateColumn("enrolled_students", int(count)).Error; err != nil {
			return fixed, err
		}
		fixed++
	}
	return fixed, nil
}
