package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/coursebay/coursebay/app/repository"
	"github.com/coursebay/coursebay/internal/pkg/cache"
)

const (
	catalogCacheKey = "courses:published"
	catalogCacheTTL = 5 * time.Minute
)

// HandleGetAllCourses returns the published course catalog. The serialized
// list is cached in Redis for a short TTL; a cache miss or cache outage falls
// back to the database.
func HandleGetAllCourses(c *fiber.Ctx) error {
	if cached, err := cache.Get(catalogCacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	courses, err := repository.GetGlobalFactory().GetCourseRepository().ListPublished()
	if err != nil {
		return respondFailure(c, "Failed to load courses")
	}

	payload := fiber.Map{"success": true, "courses": courses}
	if raw, err := json.Marshal(payload); err == nil {
		if err := cache.Set(catalogCacheKey, string(raw), catalogCacheTTL); err != nil {
			log.Printf("course catalog cache write failed: %v", err)
		}
	}

	return respondSuccess(c, fiber.Map{"courses": courses})
}

// HandleGetCourse returns a single published course with its ratings.
func HandleGetCourse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return respondFailure(c, "Invalid Details")
	}

	course, err := repository.GetGlobalFactory().GetCourseRepository().GetPublishedByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondFailure(c, "Course not found")
		}
		return respondFailure(c, "Failed to load course")
	}

	return respondSuccess(c, fiber.Map{"course_data": course})
}
