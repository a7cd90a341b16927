package handlers

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/letsgoal/letsgoal-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventGoalUpdated    = "goal_updated"
	EventGoalCompleted  = "goal_completed"
	EventGoalShared     = "goal_shared"
	EventSubgoalUpdated = "subgoal_updated"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type   string      `json:"type"`
	GoalID string      `json:"goalId"`
	UserID string      `json:"userId"`
	Data   interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection with its user ID
type connection struct {
	conn   *websocket.Conn
	userID uuid.UUID
}

// Hub manages WebSocket connections per goal
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool // goalID -> set of connections
}

// Global hub instance
var WS = &Hub{
	rooms: make(map[uuid.UUID]map[*connection]bool),
}

func (h *Hub) register(goalID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[goalID] == nil {
		h.rooms[goalID] = make(map[*connection]bool)
	}
	h.rooms[goalID][conn] = true
	log.Printf("WS register: user %s joined goal %s (total: %d)", conn.userID, goalID, len(h.rooms[goalID]))
}

func (h *Hub) unregister(goalID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[goalID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, goalID)
		}
	}
}

// Broadcast sends an event to all connections in a goal room, excluding the sender
func (h *Hub) Broadcast(goalID uuid.UUID, excludeUserID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.rooms[goalID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS broadcast marshal error: %v", err)
		return
	}

	for c := range conns {
		// Don't send to the user who triggered the event
		if c.userID == excludeUserID {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

// WebSocketUpgrade checks the upgrade request and validates the JWT
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			// Also check Authorization header for non-browser clients
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(JWTSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleWebSocket handles a WebSocket connection for a specific goal.
// Joining requires access to the goal.
func HandleWebSocket(c *websocket.Conn) {
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Close()
		return
	}

	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	if !Goals.CanAccessGoal(goalID, userID) {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	WS.register(goalID, conn)
	defer WS.unregister(goalID, conn)

	// Keep connection alive; clients send pings/keepalives
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
