package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coursebay/coursebay/internal/pkg/database"
	"github.com/coursebay/coursebay/internal/pkg/env"
	"github.com/coursebay/coursebay/internal/pkg/payments"
	"github.com/coursebay/coursebay/internal/pkg/purchases"
	"github.com/coursebay/coursebay/internal/pkg/usercontext"
)

func newPurchaseService() *purchases.Service {
	return purchases.NewServiceFromDB(
		database.GetDB(),
		payments.NewStripeGatewayFromEnv(),
		env.GetEnv("CURRENCY", "usd"),
	)
}

// HandlePurchaseCourse starts a purchase for the current user. Free courses
// enroll immediately; paid courses answer with a hosted checkout URL.
func HandlePurchaseCourse(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req struct {
		CourseID uint `json:"courseId"`
	}
	if err := c.BodyParser(&req); err != nil || req.CourseID == 0 {
		return respondFailure(c, "Invalid Details")
	}

	origin := c.Get(fiber.HeaderOrigin)
	if origin == "" {
		origin = env.GetEnv("PUBLIC_DOMAIN", "")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 20*time.Second)
	defer cancel()

	result, err := newPurchaseService().PurchaseCourse(ctx, userCtx.UserID, req.CourseID, origin)
	if err != nil {
		switch {
		case errors.Is(err, purchases.ErrCourseNotFound):
			return respondFailure(c, "Course not found")
		case errors.Is(err, purchases.ErrUserNotFound):
			return respondFailure(c, "User Not Found")
		case errors.Is(err, purchases.ErrUpstream):
			return respondFailure(c, "Payment provider request failed")
		default:
			return respondFailure(c, "Failed to start purchase")
		}
	}

	if result.Redirect != "" {
		return respondSuccess(c, fiber.Map{
			"message":     "Free course enrolled successfully",
			"redirect":    result.Redirect,
			"purchase_id": result.Purchase.ID,
		})
	}
	return respondSuccess(c, fiber.Map{"session_url": result.SessionURL})
}

// HandleVerifyPurchase reports the current status of a purchase so the client
// can poll after returning from checkout.
func HandleVerifyPurchase(c *fiber.Ctx) error {
	var req struct {
		PurchaseID string `json:"purchaseId"`
	}
	if err := c.BodyParser(&req); err != nil || req.PurchaseID == "" {
		return respondFailure(c, "Invalid Details")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	purchase, err := newPurchaseService().VerifyPurchase(ctx, req.PurchaseID)
	if err != nil {
		if errors.Is(err, purchases.ErrPurchaseNotFound) {
			return respondFailure(c, "Purchase Not Found")
		}
		return respondFailure(c, "Failed to verify purchase")
	}

	return respondSuccess(c, fiber.Map{
		"purchase": fiber.Map{
			"id":        purchase.ID,
			"course_id": purchase.CourseID,
			"status":    purchase.Status,
			"amount":    purchase.Amount,
		},
	})
}
