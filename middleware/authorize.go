package middleware

import (
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Action is the operation a principal wants to perform on a resource
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource kinds
const (
	KindCourse   = "course"
	KindLesson   = "lesson"
	KindMaterial = "material"
)

// Denial reasons
const (
	ReasonAuthRequired            = "authentication required"
	ReasonInsufficientPermissions = "insufficient permissions"
	ReasonNotResourceOwner        = "not resource owner"
	ReasonNotEnrolled             = "not enrolled"
)

// Principal is the acting user. A nil *Principal is an anonymous request.
type Principal struct {
	ID   uint
	Role string
}

// Resource describes the authorization target. Callers resolve the owning
// course before invoking the guard; a missing resource is a not-found
// condition handled by the caller, never a denial.
type Resource struct {
	Kind         string // course, lesson, material
	InstructorID uint   // instructor owning the resolved course
	Enrolled     bool   // principal holds an enrollment in the course
}

// Decision is the guard outcome: allowed, or denied with a reason
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Authorize evaluates whether the principal may perform action on res.
// Rules are evaluated in order; the first match wins. The function is
// pure: it never touches the database.
func Authorize(p *Principal, action Action, res Resource) Decision {
	authRequired := action != ActionRead || res.Kind == KindLesson || res.Kind == KindMaterial

	if p == nil {
		if authRequired {
			return Deny(ReasonAuthRequired)
		}
		return Allow()
	}

	if action != ActionRead && p.Role != models.RoleInstructor && p.Role != models.RoleAdmin {
		return Deny(ReasonInsufficientPermissions)
	}

	if (action == ActionUpdate || action == ActionDelete) && p.Role != models.RoleAdmin && p.ID != res.InstructorID {
		return Deny(ReasonNotResourceOwner)
	}

	if action == ActionRead && (res.Kind == KindLesson || res.Kind == KindMaterial) {
		if p.Role != models.RoleAdmin && p.ID != res.InstructorID && !res.Enrolled {
			return Deny(ReasonNotEnrolled)
		}
	}

	return Allow()
}

// principalFromCtx reads the user stashed by JWTMiddleware
func principalFromCtx(c *fiber.Ctx) *Principal {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return nil
	}
	return &Principal{ID: user.ID, Role: user.Role}
}

// courseFromParams resolves the course referenced by the route. Lesson and
// material routes use :courseId; plain course routes use :id. A malformed id
// resolves to gorm.ErrRecordNotFound; other errors are passed through so the
// caller can report them as server errors.
func courseFromParams(c *fiber.Ctx) (*courseModels.Course, error) {
	param := c.Params("courseId")
	if param == "" {
		param = c.Params("id")
	}
	id, err := strconv.Atoi(param)
	if err != nil || id <= 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// RequireRole returns a middleware that allows only the given roles
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := principalFromCtx(c)
		if p == nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
		}

		for _, role := range roles {
			if p.Role == role {
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "Insufficient permissions!", nil)
	}
}

// RequireCourseOwner resolves the target course and allows only its owning
// instructor (or an admin) through. The resolved course is stashed in
// locals for the handler.
func RequireCourseOwner(c *fiber.Ctx) error {
	course, err := courseFromParams(c)
	if err == gorm.ErrRecordNotFound {
		return JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		return ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching course!", err)
	}

	p := principalFromCtx(c)
	decision := Authorize(p, ActionUpdate, Resource{Kind: KindCourse, InstructorID: course.InstructorID})
	if !decision.Allowed {
		if decision.Reason == ReasonAuthRequired {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
		}
		return JsonResponse(c, fiber.StatusForbidden, false, "You can only modify courses you created!", nil)
	}

	c.Locals("course", course)
	return c.Next()
}

// RequireEnrollment resolves the target course and allows the owning
// instructor, an admin, or an enrolled student through. Enrollment state is
// re-read per request, so an unenroll revokes access at the next check.
func RequireEnrollment(c *fiber.Ctx) error {
	course, err := courseFromParams(c)
	if err == gorm.ErrRecordNotFound {
		return JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		return ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching course!", err)
	}

	p := principalFromCtx(c)
	if p == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Authentication required!", nil)
	}

	var enrollment courseModels.Enrollment
	enrolled := false
	err = database.Database.Db.Where("user_id = ? AND course_id = ?", p.ID, course.ID).First(&enrollment).Error
	if err == nil {
		enrolled = true
	} else if err != gorm.ErrRecordNotFound {
		return ErrorResponse(c, fiber.StatusInternalServerError, "Error verifying enrollment!", err)
	}

	decision := Authorize(p, ActionRead, Resource{Kind: KindLesson, InstructorID: course.InstructorID, Enrolled: enrolled})
	if !decision.Allowed {
		return JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to access it!", nil)
	}

	c.Locals("course", course)
	if enrolled {
		c.Locals("enrollment", &enrollment)
	}
	return c.Next()
}
