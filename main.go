package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hampr/internal/handlers"
	"hampr/internal/middleware"
	"hampr/internal/models"
	"hampr/internal/notify"
	"hampr/internal/repositories"
	"hampr/internal/services"
	"hampr/pkg/rabbitmq"
	"hampr/pkg/razorpay"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "") // empty: local sqlite file
	viper.SetDefault("SQLITE_PATH", "hampr.db")
	viper.SetDefault("RABBITMQ_URL", "") // empty: notifications are logged and dropped
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("RAZORPAY_KEY_ID", "")
	viper.SetDefault("RAZORPAY_KEY_SECRET", "")
	viper.SetDefault("RAZORPAY_BASE_URL", "")
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required: it must match the identity provider's signing secret")
	}

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.Coupon{}, &models.Product{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Notification dispatch ---
	// Without a broker the dispatcher degrades to logging, matching the
	// best-effort contract: a notification failure never blocks an order.
	var dispatcher notify.Dispatcher = notify.NopDispatcher{}
	var mqClient *rabbitmq.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		dispatcher = notify.NewQueueDispatcher(mqClient)
	}

	// --- Payment gateway ---
	gateway := razorpay.NewClient(razorpay.Config{
		KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
		KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
		BaseURL:   viper.GetString("RAZORPAY_BASE_URL"),
	})

	// --- Repositories ---
	orderRepo := repositories.NewGORMOrderRepository(db)
	couponRepo := repositories.NewGORMCouponRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	// --- Services ---
	couponService := services.NewCouponService(couponRepo)
	checkoutService := services.NewCheckoutService(orderRepo, couponService, gateway, dispatcher)
	orderService := services.NewOrderService(orderRepo, dispatcher)
	productService := services.NewProductService(productRepo)

	// --- Handlers ---
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	orderHandler := handlers.NewOrderHandler(orderService)
	couponHandler := handlers.NewCouponHandler(couponService)
	productHandler := handlers.NewProductHandler(productService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes: catalog browsing and coupon validation.
	productHandler.RegisterPublicRoutes(apiV1)
	couponHandler.RegisterPublicRoutes(apiV1)

	// Customer routes: checkout and own-order management.
	authed := apiV1.Group("", middleware.AuthRequired(jwtSecret))
	checkoutHandler.RegisterRoutes(authed)
	orderHandler.RegisterCustomerRoutes(authed)

	// Back office: unscoped order management, coupon and catalog CRUD.
	admin := apiV1.Group("/admin", middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	orderHandler.RegisterAdminRoutes(admin)
	couponHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Notification consumer ---
	// Stands in for the mail worker: drains the queue and hands each
	// envelope to the delivery sink. A real deployment renders and sends
	// the matching email here.
	if mqClient != nil {
		log.Println("Starting notification consumer...")
		err := mqClient.ConsumeNotifications(func(msg amqp.Delivery) error {
			log.Printf("Delivering notification (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		})
		if err != nil {
			log.Printf("Failed to start notification consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase connects to PostgreSQL when DATABASE_DSN is configured and
// falls back to a local sqlite file for development.
func openDatabase() (*gorm.DB, error) {
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
}
