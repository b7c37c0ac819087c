package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// The user-facing API wraps every response in a success envelope and answers
// errors with HTTP 200 + success=false; clients branch on the payload, not
// the status code. Webhook handlers do NOT use these helpers.

func respondSuccess(c *fiber.Ctx, data fiber.Map) error {
	payload := fiber.Map{"success": true}
	for k, v := range data {
		payload[k] = v
	}
	return c.JSON(payload)
}

func respondFailure(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{"success": false, "message": message})
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
