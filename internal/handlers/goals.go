package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/middleware"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	includeArchived := c.QueryBool("include_archived", false)

	goals, err := Goals.List(userID, includeArchived)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goals)
}

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := Goals.Create(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, err := Goals.Get(userID, goalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := Goals.Update(userID, goalID, req)
	if err != nil {
		return respondError(c, err)
	}

	eventType := EventGoalUpdated
	if goal.Status == models.GoalStatusCompleted {
		eventType = EventGoalCompleted
	}
	WS.Broadcast(goalID, userID, WSEvent{
		Type:   eventType,
		GoalID: goalID.String(),
		UserID: userID.String(),
		Data:   goal,
	})
	return c.JSON(goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	if err := Goals.Delete(userID, goalID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Goal deleted successfully"})
}

func ArchiveGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, err := Goals.Archive(userID, goalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goal)
}

func UnarchiveGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, err := Goals.Unarchive(userID, goalID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(goal)
}

func AddProgress(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.AddProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	entry, err := Goals.AddProgress(userID, goalID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}
