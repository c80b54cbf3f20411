package courseService

import (
	"errors"
	"log"
	courseModels "lms/models/course"
	"lms/utils"

	"gorm.io/gorm"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrMaterialNotFound = errors.New("material not found")
)

// AppendLesson assigns the next order index and appends the lesson to the
// course. Order is current lesson count + 1; gaps left by deletes are
// accepted and never closed.
func AppendLesson(db *gorm.DB, course *courseModels.Course, draft *courseModels.Lesson) error {
	var count int64
	if err := db.Model(&courseModels.Lesson{}).Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
		return err
	}

	draft.CourseID = course.ID
	draft.Order = int(count) + 1

	return db.Create(draft).Error
}

// GetLesson fetches a lesson scoped to its course
func GetLesson(db *gorm.DB, course *courseModels.Course, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	err := db.Where("id = ? AND course_id = ?", lessonID, course.ID).First(&lesson).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// RemoveLesson deletes a lesson and cascades removal of its materials.
// Remaining lessons keep their order values.
func RemoveLesson(db *gorm.DB, course *courseModels.Course, lessonID uint, store utils.FileStore) error {
	lesson, err := GetLesson(db, course, lessonID)
	if err != nil {
		return err
	}

	var materials []courseModels.Material
	if err := db.Where("lesson_id = ?", lesson.ID).Find(&materials).Error; err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(materials) > 0 {
			if err := tx.Unscoped().Where("lesson_id = ?", lesson.ID).Delete(&courseModels.Material{}).Error; err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(lesson).Error
	})
	if err != nil {
		return err
	}

	// Blob deletes are best-effort; the descriptors are already gone
	deleteBlobs(materials, store)
	return nil
}

// AttachMaterial appends a material descriptor to the course, or to one of
// its lessons when lessonID is non-zero. The caller supplies the stored
// file info obtained from the file store; no bytes move here.
func AttachMaterial(db *gorm.DB, course *courseModels.Course, lessonID uint, info *utils.StoredFile) (*courseModels.Material, error) {
	if lessonID != 0 {
		if _, err := GetLesson(db, course, lessonID); err != nil {
			return nil, err
		}
	}

	material := courseModels.Material{
		CourseID:     course.ID,
		LessonID:     lessonID,
		Name:         info.OriginalName,
		OriginalName: info.OriginalName,
		StoredName:   info.StoredName,
		Size:         info.Size,
		MimeType:     info.MimeType,
		URL:          info.URL,
	}

	if err := db.Create(&material).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

// GetMaterial fetches a material scoped to its course, and to a lesson when
// lessonID is non-zero
func GetMaterial(db *gorm.DB, course *courseModels.Course, lessonID, materialID uint) (*courseModels.Material, error) {
	var material courseModels.Material
	err := db.Where("id = ? AND course_id = ? AND lesson_id = ?", materialID, course.ID, lessonID).First(&material).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrMaterialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// RemoveMaterial removes the descriptor and instructs the file store to
// delete the underlying object. The blob delete is best-effort: the
// descriptor is removed even when the store fails, favoring metadata
// consistency over storage cleanup.
func RemoveMaterial(db *gorm.DB, course *courseModels.Course, lessonID, materialID uint, store utils.FileStore) error {
	material, err := GetMaterial(db, course, lessonID, materialID)
	if err != nil {
		return err
	}

	if err := db.Unscoped().Delete(material).Error; err != nil {
		return err
	}

	deleteBlobs([]courseModels.Material{*material}, store)
	return nil
}

func deleteBlobs(materials []courseModels.Material, store utils.FileStore) {
	if store == nil {
		return
	}
	for _, m := range materials {
		if m.StoredName == "" {
			continue
		}
		if err := store.Delete(m.StoredName); err != nil {
			log.Printf("[COURSE] Failed to delete stored file %s: %v", m.StoredName, err)
		}
	}
}
