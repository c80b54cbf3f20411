package courseRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	authRoutes "lms/routers/authRoutes"
	userRoutes "lms/routers/userRoutes"
	"lms/utils"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupApp(t *testing.T) *fiber.App {
	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Lesson{},
		&courseModels.Material{},
		&courseModels.Enrollment{},
	))
	database.Database = database.DbInstance{Db: db}

	store, err := utils.NewLocalFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	utils.Files = store

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	SetupCourseRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	result := map[string]interface{}{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func registerUser(t *testing.T, app *fiber.App, email, role string) uint {
	resp, result := doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "secret123",
		"role":       role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return uint(result["data"].(map[string]interface{})["ID"].(float64))
}

func loginUser(t *testing.T, app *fiber.App, email string) string {
	resp, result := doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	return result["data"].(map[string]interface{})["token"].(string)
}

func createCourse(t *testing.T, app *fiber.App, token string) uint {
	resp, result := doJSON(t, app, "POST", "/course/", token, fiber.Map{
		"name":        "Go Basics",
		"description": "An introduction to Go",
		"duration":    4,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return uint(result["data"].(map[string]interface{})["ID"].(float64))
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "alice@example.com", "student")

	// Duplicate email is rejected
	resp, _ := doJSON(t, app, "POST", "/auth/register", "", fiber.Map{
		"first_name": "Test",
		"last_name":  "User",
		"email":      "alice@example.com",
		"password":   "secret123",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	loginUser(t, app, "alice@example.com")

	// Wrong password is unauthorized
	resp, _ = doJSON(t, app, "POST", "/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCourseCreateRequiresInstructorRole(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "student@example.com", "student")
	token := loginUser(t, app, "student@example.com")

	resp, _ := doJSON(t, app, "POST", "/course/", token, fiber.Map{
		"name":        "Not allowed",
		"description": "Students cannot create courses",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Anonymous requests are rejected before the role check
	resp, _ = doJSON(t, app, "POST", "/course/", "", fiber.Map{
		"name":        "Not allowed",
		"description": "No token at all",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCourseOwnershipGuard(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "owner@example.com", "instructor")
	registerUser(t, app, "other@example.com", "instructor")
	registerUser(t, app, "admin@example.com", "admin")

	ownerToken := loginUser(t, app, "owner@example.com")
	otherToken := loginUser(t, app, "other@example.com")
	adminToken := loginUser(t, app, "admin@example.com")

	courseID := createCourse(t, app, ownerToken)
	path := fmt.Sprintf("/course/%d", courseID)

	// A foreign instructor cannot update or delete
	resp, _ := doJSON(t, app, "PUT", path, otherToken, fiber.Map{"name": "Hijacked"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = doJSON(t, app, "DELETE", path, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The owner's identical request succeeds
	resp, result := doJSON(t, app, "PUT", path, ownerToken, fiber.Map{"name": "Renamed"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Renamed", result["data"].(map[string]interface{})["name"])

	// Admins bypass ownership
	resp, _ = doJSON(t, app, "PUT", path, adminToken, fiber.Map{"description": "Admin touch"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Updating a missing course is not-found, not a denial
	resp, _ = doJSON(t, app, "PUT", "/course/9999", ownerToken, fiber.Map{"name": "Ghost"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestLessonReadRequiresEnrollment(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "teach@example.com", "instructor")
	studentID := registerUser(t, app, "learn@example.com", "student")

	teachToken := loginUser(t, app, "teach@example.com")
	studentToken := loginUser(t, app, "learn@example.com")

	courseID := createCourse(t, app, teachToken)

	resp, _ := doJSON(t, app, "POST", fmt.Sprintf("/course/%d/lessons", courseID), teachToken, fiber.Map{
		"title":       "Lesson 1",
		"description": "Getting started",
		"content":     "Install the toolchain",
		"duration":    15,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	lessonsPath := fmt.Sprintf("/course/%d/lessons", courseID)

	// Unenrolled student is denied
	resp, _ = doJSON(t, app, "GET", lessonsPath, studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The owning instructor reads without enrollment
	resp, _ = doJSON(t, app, "GET", lessonsPath, teachToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// After enrolling, the same read succeeds; the response carries the
	// counter the ledger just incremented
	enrollPath := fmt.Sprintf("/user/%d/enroll/%d", studentID, courseID)
	resp, enrollResult := doJSON(t, app, "POST", enrollPath, studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	enrolledCourse := enrollResult["data"].(map[string]interface{})["course"].(map[string]interface{})
	assert.Equal(t, float64(1), enrolledCourse["enrolled_students"])

	resp, result := doJSON(t, app, "GET", lessonsPath, studentToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, result["count"])

	// Enrolling twice is a conflict
	resp, _ = doJSON(t, app, "POST", enrollPath, studentToken, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Unenrolling revokes access at the next check
	resp, _ = doJSON(t, app, "DELETE", enrollPath, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "GET", lessonsPath, studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLessonUpdateKeepsUnsuppliedFields(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "partial@example.com", "instructor")
	token := loginUser(t, app, "partial@example.com")

	courseID := createCourse(t, app, token)

	resp, result := doJSON(t, app, "POST", fmt.Sprintf("/course/%d/lessons", courseID), token, fiber.Map{
		"title":        "Original title",
		"description":  "Original description",
		"content":      "Original content",
		"duration":     20,
		"is_published": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	lessonID := uint(result["data"].(map[string]interface{})["ID"].(float64))

	lessonPath := fmt.Sprintf("/course/%d/lessons/%d", courseID, lessonID)

	// A title-only update leaves the publish flag alone
	resp, result = doJSON(t, app, "PUT", lessonPath, token, fiber.Map{"title": "Renamed title"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "Renamed title", data["title"])
	assert.Equal(t, true, data["is_published"])
	assert.Equal(t, "Original description", data["description"])

	// An explicit false still unpublishes
	resp, result = doJSON(t, app, "PUT", lessonPath, token, fiber.Map{"is_published": false})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = result["data"].(map[string]interface{})
	assert.Equal(t, false, data["is_published"])
	assert.Equal(t, "Renamed title", data["title"])
}

func TestCourseDurationValidation(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "duration@example.com", "instructor")
	token := loginUser(t, app, "duration@example.com")

	resp, _ := doJSON(t, app, "POST", "/course/", token, fiber.Map{
		"name":        "Bad duration",
		"description": "Negative weeks make no sense",
		"duration":    -1,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Omitted duration falls back to the default
	resp, _ = doJSON(t, app, "POST", "/course/", token, fiber.Map{
		"name":        "No duration",
		"description": "Default applies",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCourseLookupFailureIsServerError(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "lookup@example.com", "instructor")
	token := loginUser(t, app, "lookup@example.com")
	courseID := createCourse(t, app, token)

	// Break the course table so the lookup fails with something other than
	// record-not-found
	require.NoError(t, database.Database.Db.Migrator().DropTable(&courseModels.Course{}))

	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/course/%d", courseID), token, fiber.Map{"name": "Renamed"})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/course/%d/lessons", courseID), token, nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestProgressUpdateValidation(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "teach2@example.com", "instructor")
	studentID := registerUser(t, app, "learn2@example.com", "student")

	teachToken := loginUser(t, app, "teach2@example.com")
	studentToken := loginUser(t, app, "learn2@example.com")

	courseID := createCourse(t, app, teachToken)
	progressPath := fmt.Sprintf("/user/%d/courses/%d/progress", studentID, courseID)

	// Not enrolled yet
	resp, _ := doJSON(t, app, "PUT", progressPath, studentToken, fiber.Map{"progress": 10})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/user/%d/enroll/%d", studentID, courseID), studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Out-of-range progress is rejected
	resp, _ = doJSON(t, app, "PUT", progressPath, studentToken, fiber.Map{"progress": 150})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, result := doJSON(t, app, "PUT", progressPath, studentToken, fiber.Map{
		"progress": 50,
		"status":   "in-progress",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := result["data"].(map[string]interface{})
	assert.Equal(t, float64(50), data["progress"])
	assert.Equal(t, "in-progress", data["status"])
}

func uploadMaterial(t *testing.T, app *fiber.App, path, token, filename, content string) (*http.Response, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="material"; filename=%q`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte(content))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	result := map[string]interface{}{}
	json.NewDecoder(resp.Body).Decode(&result)
	return resp, result
}

func TestMaterialUploadAndDownload(t *testing.T) {
	app := setupApp(t)

	registerUser(t, app, "teach3@example.com", "instructor")
	studentID := registerUser(t, app, "learn3@example.com", "student")

	teachToken := loginUser(t, app, "teach3@example.com")
	studentToken := loginUser(t, app, "learn3@example.com")

	courseID := createCourse(t, app, teachToken)

	resp, result := uploadMaterial(t, app, fmt.Sprintf("/course/%d/materials", courseID), teachToken, "notes.pdf", "course notes")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	materialID := uint(result["data"].(map[string]interface{})["ID"].(float64))

	downloadPath := fmt.Sprintf("/course/%d/materials/%d/download", courseID, materialID)

	// Unenrolled student cannot download
	resp, _ = doJSON(t, app, "GET", downloadPath, studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/user/%d/enroll/%d", studentID, courseID), studentToken, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest("GET", downloadPath, nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	rawResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, rawResp.StatusCode)
	content, _ := io.ReadAll(rawResp.Body)
	assert.Equal(t, "course notes", string(content))

	// Owner deletes the material; the descriptor is gone afterwards
	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/course/%d/materials/%d", courseID, materialID), teachToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, "GET", downloadPath, studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
