package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/letsgoal/letsgoal-api/internal/services"
)

// Package-level wiring, set once at startup.
var (
	Goals     *services.Goals
	JWTSecret string
)

func Init(goals *services.Goals, jwtSecret string) {
	Goals = goals
	JWTSecret = jwtSecret
}

// respondError maps the service error taxonomy onto HTTP statuses. Anything
// untyped is a persistence fault and surfaces as a 500.
func respondError(c *fiber.Ctx, err error) error {
	var notFound *services.NotFoundError
	var permission *services.PermissionError
	var validation *services.ValidationError

	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	case errors.As(err, &permission):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": permission.Error()})
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Error()})
	}

	log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
