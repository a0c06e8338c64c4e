package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/yeheskieltame/asisten-backend/database"
	"github.com/yeheskieltame/asisten-backend/internal/routes"
	"github.com/yeheskieltame/asisten-backend/internal/services"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	ctx := context.Background()

	// Initialize storage
	store, storageType := buildStore(ctx)
	storage.SetStore(store)
	log.Printf("✅ Using %s storage", storageType)

	// Initialize the response generator
	generator, err := services.NewOpenAIGenerator()
	if err != nil {
		log.Fatal("Failed to initialize OpenAI generator:", err)
	}
	log.Println("✅ OpenAI generator initialized")

	// Initialize the outbound notifier
	notifier := buildNotifier()

	// Wire the conversation core
	agent := services.NewAgent(store, generator, notifier)
	log.Println("✅ Conversation agent initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "Asisten Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Asisten Backend API",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": storageType,
			"endpoints": fiber.Map{
				"chat":    "/api/chat",
				"sheets":  "/api/sheets",
				"webhook": "/webhook",
				"health":  "/health",
			},
		})
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"version":  "1.0.0",
			"sessions": agent.Memory().Sessions(),
		})
	})

	routes.SetupRoutes(app, store, agent, notifier)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 Asisten Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", storageType)
	log.Printf("📱 WhatsApp: %s", whatsappStatus())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

// buildStore picks the persistence gateway: Google Sheets when
// credentials are configured, the in-memory store for testing,
// PostgreSQL otherwise.
func buildStore(ctx context.Context) (storage.Store, string) {
	if os.Getenv("GOOGLE_SHEET_ID") != "" {
		store, err := storage.NewSheetsStore(ctx)
		if err != nil {
			log.Fatal("Failed to initialize Google Sheets store:", err)
		}
		return store, "Google Sheets"
	}

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		return storage.NewMemoryStore(), "In-Memory (Testing)"
	}

	log.Println("📦 Connecting to PostgreSQL database...")
	if err := database.Connect(); err != nil {
		log.Fatal(err)
	}

	store := storage.NewDatabaseStore(database.DB)
	log.Println("🔄 Running database migrations...")
	if err := store.Migrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("✅ Database migrations completed!")

	return store, "PostgreSQL Database"
}

// buildNotifier picks the outbound transport: Twilio when NOTIFIER=twilio,
// the WhatsApp Cloud API otherwise. Missing credentials degrade to a
// log-only notifier so local development works without either.
func buildNotifier() services.Notifier {
	if os.Getenv("NOTIFIER") == "twilio" {
		notifier, err := services.NewTwilioNotifier()
		if err != nil {
			log.Printf("⚠️  Twilio not configured (%v) - outbound messages will be logged only", err)
			return logOnlyNotifier{}
		}
		log.Println("✅ Twilio notifier initialized")
		return notifier
	}

	notifier, err := services.NewCloudAPINotifier()
	if err != nil {
		log.Printf("⚠️  WhatsApp Cloud API not configured (%v) - outbound messages will be logged only", err)
		return logOnlyNotifier{}
	}
	log.Println("✅ WhatsApp Cloud API notifier initialized")
	return notifier
}

// logOnlyNotifier stands in when no outbound transport is configured.
type logOnlyNotifier struct{}

func (logOnlyNotifier) Send(to, text string) error {
	log.Printf("📤 Message to %s (not sent - notifier not configured): %s", to, text)
	return nil
}

func whatsappStatus() string {
	if os.Getenv("WHATSAPP_ACCESS_TOKEN") != "" || os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		return "Configured"
	}
	return "Not configured"
}
