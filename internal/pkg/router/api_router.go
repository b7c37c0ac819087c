package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/coursebay/coursebay/app/controllers"
	"github.com/coursebay/coursebay/internal/pkg/env"
	"github.com/coursebay/coursebay/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))

	// Public catalog
	api.Get("/course/all", controllers.HandleGetAllCourses)
	api.Get("/course/:id", controllers.HandleGetCourse)

	// Authenticated user routes
	user := api.Group("/user", middleware.RequireUser())
	user.Get("/data", controllers.HandleGetUserData)
	user.Post("/purchase", controllers.HandlePurchaseCourse)
	user.Post("/verify-purchase", controllers.HandleVerifyPurchase)
	user.Get("/enrolled-courses", controllers.HandleEnrolledCourses)
	user.Post("/update-course-progress", controllers.HandleUpdateCourseProgress)
	user.Post("/get-course-progress", controllers.HandleGetCourseProgress)
	user.Post("/add-rating", controllers.HandleAddRating)
}

// newLimiterStorage keeps rate limit counters in Redis so limits hold across
// instances. Falls back to fiber's in-memory storage when Redis is absent.
func newLimiterStorage() fiber.Storage {
	host := env.GetEnv("CACHE_HOST", "")
	if host == "" {
		return nil
	}
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		Database: 1,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
