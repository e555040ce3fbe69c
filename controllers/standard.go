package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kaobian-ai/kaobian-server/utils"
)

var (
	standardRoute utils.JwtMiddlewareConfig
	validate      *validator.Validate
)

func init() {
	standardRoute = utils.JwtMiddlewareConfig{
		ReadFrom: "header",
		Subject:  "access",
		Scopes:   []string{"basic"},
	}

	validate = validator.New()
}

type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *fiber.Ctx, status int, success bool, message string) error {
	return c.Status(status).JSON(apiResponse{Success: success, Message: message})
}

// clientInfo extracts the requester's network address and user agent for the
// send ledger and browse history.
func clientInfo(c *fiber.Ctx) (sourceAddress, userAgent string) {
	return c.IP(), c.Get(fiber.HeaderUserAgent)
}
