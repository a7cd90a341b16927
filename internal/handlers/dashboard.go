package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/letsgoal/letsgoal-api/internal/middleware"
)

func GetDashboardStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	stats, err := Goals.Stats(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

func GetHistoryReport(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	report, err := Goals.History(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
