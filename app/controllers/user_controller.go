package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coursebay/coursebay/app/models"
	"github.com/coursebay/coursebay/app/repository"
	"github.com/coursebay/coursebay/internal/pkg/cache"
	"github.com/coursebay/coursebay/internal/pkg/usercontext"
)

// HandleGetUserData returns the current user's profile.
func HandleGetUserData(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondFailure(c, "User Not Found")
		}
		return respondFailure(c, "Failed to load user")
	}

	return respondSuccess(c, fiber.Map{"user": user})
}

// HandleEnrolledCourses lists the user's completed purchases with the course
// summary embedded.
func HandleEnrolledCourses(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	repo := repository.GetGlobalFactory().GetPurchaseRepository()
	purchases, err := repo.ListCompletedByUser(userCtx.UserID)
	if err != nil {
		return respondFailure(c, "Failed to load enrolled courses")
	}

	enrolled := make([]fiber.Map, 0, len(purchases))
	for _, p := range purchases {
		entry := fiber.Map{
			"purchase_id": p.ID,
			"amount":      p.Amount,
			"status":      p.Status,
			"created_at":  p.CreatedAt,
		}
		if p.Course != nil {
			entry["course"] = fiber.Map{
				"id":                 p.Course.ID,
				"course_title":       p.Course.CourseTitle,
				"course_description": p.Course.CourseDescription,
				"course_image":       p.Course.CourseImage,
			}
		}
		enrolled = append(enrolled, entry)
	}

	return respondSuccess(c, fiber.Map{"enrolled_courses": enrolled})
}

// HandleUpdateCourseProgress marks a lecture as completed. Re-submitting a
// completed lecture reports "Lecture Already Completed" without mutation.
func HandleUpdateCourseProgress(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req struct {
		CourseID  uint   `json:"courseId"`
		LectureID string `json:"lectureId"`
	}
	if err := c.BodyParser(&req); err != nil || req.CourseID == 0 || req.LectureID == "" {
		return respondFailure(c, "Invalid Details")
	}

	factory := repository.GetGlobalFactory()
	course, err := factory.GetCourseRepository().GetByID(req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondFailure(c, "Course not found")
		}
		return respondFailure(c, "Failed to load course")
	}
	if !course.HasLecture(req.LectureID) {
		return respondFailure(c, "Lecture not found in this course")
	}

	already, err := factory.GetProgressRepository().AddLecture(userCtx.UserID, req.CourseID, req.LectureID)
	if err != nil {
		return respondFailure(c, "Failed to update progress")
	}
	if already {
		return respondSuccess(c, fiber.Map{"message": "Lecture Already Completed"})
	}
	return respondSuccess(c, fiber.Map{"message": "Progress Updated"})
}

// HandleGetCourseProgress returns the user's progress in a course, or a null
// record if none exists yet.
func HandleGetCourseProgress(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req struct {
		CourseID uint `json:"courseId"`
	}
	if err := c.BodyParser(&req); err != nil || req.CourseID == 0 {
		return respondFailure(c, "Invalid Details")
	}

	progress, err := repository.GetGlobalFactory().GetProgressRepository().Get(userCtx.UserID, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondSuccess(c, fiber.Map{"progress_data": nil})
		}
		return respondFailure(c, "Failed to load progress")
	}

	return respondSuccess(c, fiber.Map{
		"progress_data": fiber.Map{
			"course_id":         progress.CourseID,
			"user_id":           progress.UserID,
			"lecture_completed": progress.LectureIDs(),
		},
	})
}

// HandleAddRating stores the user's 1-5 rating for an enrolled course,
// replacing any earlier rating by the same user.
func HandleAddRating(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req struct {
		CourseID uint `json:"courseId"`
		Rating   int  `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil || req.CourseID == 0 || !models.IsValidRating(req.Rating) {
		return respondFailure(c, "Invalid Details")
	}

	factory := repository.GetGlobalFactory()
	if _, err := factory.GetCourseRepository().GetByID(req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondFailure(c, "Course not found.")
		}
		return respondFailure(c, "Failed to load course")
	}

	userRepo := factory.GetUserRepository()
	if _, err := userRepo.GetByID(userCtx.UserID); err != nil {
		return respondFailure(c, "User has not purchased this course.")
	}
	enrolled, err := userRepo.IsEnrolled(userCtx.UserID, req.CourseID)
	if err != nil {
		return respondFailure(c, "Failed to check enrollment")
	}
	if !enrolled {
		return respondFailure(c, "User has not purchased this course.")
	}

	if err := factory.GetCourseRepository().UpsertRating(req.CourseID, userCtx.UserID, req.Rating); err != nil {
		return respondFailure(c, "Failed to save rating")
	}

	// Ratings are embedded in the cached catalog; drop it so the new value
	// shows up before the TTL expires.
	if err := cache.Delete(catalogCacheKey); err != nil {
		log.Printf("course catalog cache invalidation failed: %v", err)
	}

	return respondSuccess(c, fiber.Map{"message": "Rating added"})
}
