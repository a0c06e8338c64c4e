package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yeheskieltame/asisten-backend/internal/services"
)

// ChatHandler serves the web UI chat endpoint.
type ChatHandler struct {
	agent *services.Agent
}

// NewChatHandler creates a chat handler.
func NewChatHandler(agent *services.Agent) *ChatHandler {
	return &ChatHandler{agent: agent}
}

// ChatRequest is the inbound chat body.
type ChatRequest struct {
	Message     string `json:"message"`
	SessionID   string `json:"sessionId"`
	PhoneNumber string `json:"phoneNumber"`
}

// HandleChat processes one chat message and returns the assistant
// response, or a generic 500 body on any failure.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	// Clients normally mint their own session token; cover the ones
	// that do not.
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	response, err := h.agent.ProcessChatMessage(c.Context(), req.Message, req.SessionID, req.PhoneNumber)
	if err != nil {
		log.Printf("❌ Chat turn failed for session %s: %v", req.SessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	return c.JSON(fiber.Map{
		"response": response,
	})
}
