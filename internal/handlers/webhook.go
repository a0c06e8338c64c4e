package handlers

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/yeheskieltame/asisten-backend/internal/services"
)

// WebhookHandler receives WhatsApp Cloud API callbacks: the
// challenge/response verification handshake and message deliveries.
type WebhookHandler struct {
	agent       *services.Agent
	notifier    services.Notifier
	verifyToken string
}

// NewWebhookHandler creates a webhook handler. The verify token comes
// from WHATSAPP_VERIFY_TOKEN.
func NewWebhookHandler(agent *services.Agent, notifier services.Notifier) *WebhookHandler {
	return &WebhookHandler{
		agent:       agent,
		notifier:    notifier,
		verifyToken: os.Getenv("WHATSAPP_VERIFY_TOKEN"),
	}
}

// WebhookPayload is the nested Cloud API delivery envelope.
type WebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []WebhookMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// WebhookMessage is a single inbound message.
type WebhookMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// verify echoes the challenge when the subscribe handshake carries the
// configured token. Returns false when the query is not a handshake or
// the token does not match.
func (h *WebhookHandler) verify(c *fiber.Ctx) (bool, error) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		return true, c.Status(fiber.StatusOK).SendString(challenge)
	}
	return false, nil
}

// HandleVerify serves the GET verification handshake.
func (h *WebhookHandler) HandleVerify(c *fiber.Ctx) error {
	ok, err := h.verify(c)
	if ok {
		return err
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// HandleWebhook processes a delivery. The first text message of the
// payload is routed into the core; the reply goes out through the
// notifier. The response is {status: "ok"} regardless of downstream
// outcome so the Cloud API does not redeliver.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	// Initial setup embeds the verification params in the POST.
	if ok, err := h.verify(c); ok {
		return err
	}

	var payload WebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	message := firstTextMessage(&payload)
	if message == nil {
		return c.JSON(fiber.Map{"status": "ok"})
	}

	log.Printf("📱 WhatsApp message from %s: %s", message.From, message.Text.Body)

	response, err := h.agent.ProcessChatMessage(c.Context(), message.Text.Body, message.ID, message.From)
	if err != nil {
		log.Printf("❌ Error processing message: %v", err)
		return c.JSON(fiber.Map{"status": "ok"})
	}

	if err := h.notifier.Send(message.From, response); err != nil {
		log.Printf("❌ Failed to send WhatsApp response: %v", err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func firstTextMessage(payload *WebhookPayload) *WebhookMessage {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for i := range change.Value.Messages {
				msg := &change.Value.Messages[i]
				if msg.Type == "text" {
					return msg
				}
			}
		}
	}
	return nil
}
