package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yeheskieltame/asisten-backend/internal/handlers"
	"github.com/yeheskieltame/asisten-backend/internal/services"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, agent *services.Agent, notifier services.Notifier) {
	chatHandler := handlers.NewChatHandler(agent)
	sheetsHandler := handlers.NewSheetsHandler(store)
	webhookHandler := handlers.NewWebhookHandler(agent, notifier)

	// API routes
	api := app.Group("/api")
	api.Post("/chat", chatHandler.HandleChat)
	api.Post("/sheets", sheetsHandler.HandleSheets)
	api.Get("/sheets", handlers.HandleSheetsGet)

	// ========== WEBHOOK ROUTES ==========
	app.Get("/webhook", webhookHandler.HandleVerify)
	app.Post("/webhook", webhookHandler.HandleWebhook)
}
