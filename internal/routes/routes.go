package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/letsgoal/letsgoal-api/internal/handlers"
	"github.com/letsgoal/letsgoal-api/internal/middleware"
)

func Setup(app *fiber.App, jwtSecret string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected(jwtSecret))

	protected.Get("/me", handlers.GetMe)
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	goals.Post("/:id/archive", handlers.ArchiveGoal)
	goals.Post("/:id/unarchive", handlers.UnarchiveGoal)

	goals.Post("/:id/subgoals", handlers.CreateSubgoal)
	goals.Post("/:id/progress", handlers.AddProgress)

	goals.Post("/:id/shares", handlers.ShareGoal)
	goals.Get("/:id/shares", handlers.GetGoalShares)
	goals.Delete("/:id/shares/:userId", handlers.UnshareGoal)

	subgoals := protected.Group("/subgoals")
	subgoals.Put("/:id", handlers.UpdateSubgoal)
	subgoals.Delete("/:id", handlers.DeleteSubgoal)

	tags := protected.Group("/tags")
	tags.Get("/", handlers.GetTags)
	tags.Post("/", handlers.CreateTag)
	tags.Put("/:id", handlers.UpdateTag)
	tags.Delete("/:id", handlers.DeleteTag)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/stats", handlers.GetDashboardStats)

	reports := protected.Group("/reports")
	reports.Get("/history", handlers.GetHistoryReport)

	// WebSocket for real-time goal updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/goals/:id", websocket.New(handlers.HandleWebSocket))
}
