package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/middleware"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

func ShareGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.ShareGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	share, err := Goals.Share(userID, goalID, req)
	if err != nil {
		return respondError(c, err)
	}

	WS.Broadcast(goalID, userID, WSEvent{
		Type:   EventGoalShared,
		GoalID: goalID.String(),
		UserID: userID.String(),
		Data:   share,
	})
	return c.Status(fiber.StatusCreated).JSON(share)
}

func GetGoalShares(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	shares, err := Goals.ListShares(userID, goalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(shares)
}

func UnshareGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	if err := Goals.Unshare(userID, goalID, targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Goal unshared successfully"})
}
