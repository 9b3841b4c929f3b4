package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"afcm-ticketing/config"
	"afcm-ticketing/internal/handlers"
	"afcm-ticketing/internal/services"
	"afcm-ticketing/internal/services/paystack"
	"afcm-ticketing/internal/store"
	"afcm-ticketing/internal/ticket"
	"afcm-ticketing/monitoring"
	"afcm-ticketing/security"
	"afcm-ticketing/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	_ "afcm-ticketing/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub. Left nil when no keys are configured; the
	// notification service then skips realtime publishes.
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	serials, err := ticket.NewSerialGenerator(cfg.SnowflakeNode)
	if err != nil {
		return err
	}

	gateway := paystack.NewClient(&paystack.ClientConfig{
		BaseURL:   cfg.PaystackBaseURL,
		SecretKey: cfg.PaystackSecretKey,
	})

	monitor := monitoring.NewMonitor()

	// Initialize services
	st := store.NewPBStore(app)
	notifier := services.NewNotificationService(st, redisClient, pn, monitor, cfg.EmailFrom)
	issuance := services.NewIssuanceService(st, serials, notifier, monitor, cfg.QRSecret)
	orders := services.NewOrderService(st, gateway, cfg.InvoiceDueAfter)

	// Initialize handlers
	limiter := security.NewRateLimiter(redisClient)
	webhookHandler := handlers.NewWebhookHandler(app, issuance, gateway, monitor, cfg.PaystackSecretKey)
	orderHandler := handlers.NewOrderHandler(app, orders, limiter)
	ticketHandler := handlers.NewTicketHandler(app, st, cfg.QRSecret)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.Environment == "development",
	})

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Webhook endpoint; authenticated by signature, not by session
		e.Router.POST("/api/v1/paystack/webhook", webhookHandler.PaystackConfirmation)

		// Registration endpoints
		e.Router.POST("/api/v1/orders", orderHandler.CreateOrder)
		e.Router.GET("/api/v1/orders/{orderId}/ticket", ticketHandler.GetOrderTicket)

		// Gate-side verification
		e.Router.POST("/api/v1/tickets/verify", ticketHandler.VerifyTicket)

		if cfg.EnableMetrics {
			e.Router.GET("/metrics", func(e *core.RequestEvent) error {
				promhttp.Handler().ServeHTTP(e.Response, e.Request)
				return nil
			})
		}

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slog.Info("shutting down", "signal", sig.String())
	cancel()
}
