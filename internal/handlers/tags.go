package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/letsgoal/letsgoal-api/internal/middleware"
	"github.com/letsgoal/letsgoal-api/internal/models"
)

func GetTags(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	tags, err := Goals.ListTags(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tags)
}

func CreateTag(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tag, err := Goals.CreateTag(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

func UpdateTag(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	tagID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tag ID",
		})
	}

	var req models.UpdateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	tag, err := Goals.UpdateTag(userID, tagID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tag)
}

func DeleteTag(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	tagID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid tag ID",
		})
	}

	if err := Goals.DeleteTag(userID, tagID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
