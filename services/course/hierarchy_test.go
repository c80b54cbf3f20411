package courseService

import (
	"errors"
	"io"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Material{},
		&courseModels.Enrollment{},
	)
	require.NoError(t, err)

	return db
}

func createCourse(t *testing.T, db *gorm.DB) *courseModels.Course {
	course := courseModels.Course{Name: "Go Basics", Description: "Intro course", InstructorID: 1}
	require.NoError(t, db.Create(&course).Error)
	return &course
}

// fakeStore records deletes and can be told to fail them
type fakeStore struct {
	deleted    []string
	failDelete bool
}

func (f *fakeStore) Store(*multipart.FileHeader) (*utils.StoredFile, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Delete(storedName string) error {
	f.deleted = append(f.deleted, storedName)
	if f.failDelete {
		return errors.New("blob store unreachable")
	}
	return nil
}

func (f *fakeStore) Open(string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) URLFor(storedName string) string {
	return "/uploads/materials/" + storedName
}

func TestAppendLessonAssignsSequentialOrder(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	titles := []string{"Intro", "Variables", "Functions", "Structs"}
	for i, title := range titles {
		lesson := courseModels.Lesson{Title: title, Duration: 10}
		require.NoError(t, AppendLesson(db, course, &lesson))
		assert.Equal(t, i+1, lesson.Order)
	}

	var lessons []courseModels.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("lesson_order").Find(&lessons).Error)
	require.Len(t, lessons, 4)
	for i, l := range lessons {
		assert.Equal(t, i+1, l.Order)
		assert.Equal(t, titles[i], l.Title)
	}
}

func TestRemoveLessonKeepsRemainingOrder(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	var lessons []courseModels.Lesson
	for _, title := range []string{"One", "Two", "Three"} {
		lesson := courseModels.Lesson{Title: title, Duration: 5}
		require.NoError(t, AppendLesson(db, course, &lesson))
		lessons = append(lessons, lesson)
	}

	require.NoError(t, RemoveLesson(db, course, lessons[1].ID, nil))

	// Survivors keep their order values; the gap stays
	var remaining []courseModels.Lesson
	require.NoError(t, db.Where("course_id = ?", course.ID).Order("lesson_order").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, 1, remaining[0].Order)
	assert.Equal(t, 3, remaining[1].Order)
}

func TestRemoveLessonMissing(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	err := RemoveLesson(db, course, 999, nil)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestRemoveLessonCascadesMaterials(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	lesson := courseModels.Lesson{Title: "With files", Duration: 5}
	require.NoError(t, AppendLesson(db, course, &lesson))

	info := utils.StoredFile{OriginalName: "notes.pdf", StoredName: "abc.pdf", Size: 120, MimeType: "application/pdf"}
	_, err := AttachMaterial(db, course, lesson.ID, &info)
	require.NoError(t, err)

	store := &fakeStore{}
	require.NoError(t, RemoveLesson(db, course, lesson.ID, store))

	var count int64
	db.Model(&courseModels.Material{}).Where("lesson_id = ?", lesson.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, []string{"abc.pdf"}, store.deleted)
}

func TestAttachMaterialToCourse(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	info := utils.StoredFile{OriginalName: "syllabus.pdf", StoredName: "s.pdf", Size: 64, MimeType: "application/pdf", URL: "/uploads/materials/s.pdf"}
	material, err := AttachMaterial(db, course, 0, &info)
	require.NoError(t, err)

	assert.Equal(t, course.ID, material.CourseID)
	assert.Zero(t, material.LessonID)
	assert.Equal(t, "syllabus.pdf", material.Name)
	assert.Equal(t, "/uploads/materials/s.pdf", material.URL)
}

func TestAttachMaterialToMissingLesson(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	info := utils.StoredFile{OriginalName: "x.pdf", StoredName: "x.pdf"}
	_, err := AttachMaterial(db, course, 42, &info)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestRemoveMaterialBestEffortBlobDelete(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	info := utils.StoredFile{OriginalName: "big.zip", StoredName: "big.zip", MimeType: "application/zip"}
	material, err := AttachMaterial(db, course, 0, &info)
	require.NoError(t, err)

	// Descriptor removal wins even when the blob store is unreachable
	store := &fakeStore{failDelete: true}
	require.NoError(t, RemoveMaterial(db, course, 0, material.ID, store))

	var count int64
	db.Model(&courseModels.Material{}).Where("course_id = ?", course.ID).Count(&count)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, []string{"big.zip"}, store.deleted)
}

func TestRemoveMaterialMissing(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	err := RemoveMaterial(db, course, 0, 999, nil)
	assert.ErrorIs(t, err, ErrMaterialNotFound)
}

func TestDerivedAggregates(t *testing.T) {
	db := setupTestDb(t)
	course := createCourse(t, db)

	for _, d := range []int{10, 20, 45} {
		lesson := courseModels.Lesson{Title: "L", Duration: d}
		require.NoError(t, AppendLesson(db, course, &lesson))
	}

	var loaded courseModels.Course
	require.NoError(t, db.Preload("Lessons").First(&loaded, course.ID).Error)
	assert.Equal(t, 3, loaded.LessonCount())
	assert.Equal(t, 75, loaded.TotalLessonDuration())
}
