package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/middleware"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

func CreateSubgoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.CreateSubgoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	subgoal, err := Goals.CreateSubgoal(userID, goalID, req)
	if err != nil {
		return respondError(c, err)
	}

	WS.Broadcast(goalID, userID, WSEvent{
		Type:   EventSubgoalUpdated,
		GoalID: goalID.String(),
		UserID: userID.String(),
		Data:   subgoal,
	})
	return c.Status(fiber.StatusCreated).JSON(subgoal)
}

func UpdateSubgoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	subgoalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subgoal ID",
		})
	}

	var req models.UpdateSubgoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	subgoal, err := Goals.UpdateSubgoal(userID, subgoalID, req)
	if err != nil {
		return respondError(c, err)
	}

	WS.Broadcast(subgoal.GoalID, userID, WSEvent{
		Type:   EventSubgoalUpdated,
		GoalID: subgoal.GoalID.String(),
		UserID: userID.String(),
		Data:   subgoal,
	})
	return c.JSON(subgoal)
}

func DeleteSubgoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	subgoalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid subgoal ID",
		})
	}

	if err := Goals.DeleteSubgoal(userID, subgoalID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Subgoal deleted successfully"})
}
