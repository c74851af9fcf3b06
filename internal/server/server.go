package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chidubem/paylinq/config"
	"github.com/chidubem/paylinq/internal/handlers"
	"github.com/chidubem/paylinq/internal/logging"
	"github.com/chidubem/paylinq/internal/middleware"
	"github.com/chidubem/paylinq/internal/notifier"
	"github.com/chidubem/paylinq/internal/rates"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		return fmt.Errorf("failed to load app config: %v", err)
	}

	ratesCfg, err := config.LoadRatesConfig()
	if err != nil {
		return fmt.Errorf("failed to load rates config: %v", err)
	}

	logger := logging.New(appCfg.LogLevel, appCfg.LogFormat)
	slog.SetDefault(logger)

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	setupRoutes(r, db, appCfg, rates.NewClient(ratesCfg.BaseURL), notifier.New())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("server starting", "port", port, "base_url", appCfg.BaseURL)
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, appCfg *config.AppConfig, ratesClient *rates.Client, notifications *notifier.Notifier) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.AppConfigMiddleware(appCfg))
	r.Use(middleware.RatesMiddleware(ratesClient))
	r.Use(middleware.NotifierMiddleware(notifications))

	r.Static("/uploads", appCfg.UploadDir)

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
	}

	// Payer surface: access is by knowledge of the reference alone.
	pay := r.Group("/pay")
	{
		pay.GET("/:reference", handlers.GetPayPage)
		pay.POST("/:reference/confirm", handlers.ConfirmPayment)
		pay.GET("/:reference/conversion", handlers.GetConversion)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		methods := protected.Group("/payment-methods")
		{
			methods.POST("", handlers.CreatePaymentMethod)
			methods.GET("", handlers.ListPaymentMethods)
			methods.GET("/:id", handlers.GetPaymentMethod)
			methods.PUT("/:id", handlers.UpdatePaymentMethod)
			methods.DELETE("/:id", handlers.DeletePaymentMethod)
		}

		links := protected.Group("/payment-links")
		{
			links.POST("", handlers.CreatePaymentLink)
			links.GET("", handlers.ListPaymentLinks)
			links.GET("/:id", handlers.GetPaymentLink)
			links.PUT("/:id", handlers.UpdatePaymentLink)
			links.DELETE("/:id", handlers.DeletePaymentLink)
			links.POST("/:id/complete", handlers.CompletePaymentLink)
			links.POST("/:id/cancel", handlers.CancelPaymentLink)
			links.GET("/:id/qr", handlers.PaymentLinkQR)
		}

		protected.GET("/notifications", handlers.ListNotifications)
	}
}
