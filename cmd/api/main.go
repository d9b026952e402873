package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"home-services-app/internal/config"
	"home-services-app/internal/handler"
	"home-services-app/internal/models"
	"home-services-app/internal/repository"
	"home-services-app/internal/services"
	"home-services-app/internal/utils"
	"home-services-app/internal/utils/mongodb"
	"home-services-app/internal/utils/push"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, shutdownManager := utils.NewShutdownManager(context.Background(), cfg.ShutdownTimeout)
	shutdownManager.StartListening()

	mongoClient, err := mongodb.NewMongoDBConnection(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDBName)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	redisClient, err := utils.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	var pusher services.Pusher
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := push.NewFCMClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("FCM disabled: %v", err)
		} else {
			pusher = fcmClient
		}
	} else {
		log.Println("FCM disabled: no credentials configured")
	}

	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	if err := reviewRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create review indexes:", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create user indexes:", err)
	}

	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, pusher)
	orderService := services.NewOrderService(orderRepo, notificationService, redisClient)
	reviewService := services.NewReviewService(reviewRepo, orderRepo, userRepo)
	userService := services.NewUserService(userRepo, jwtUtil, notificationService, redisClient)
	catalogService := services.NewCatalogService(serviceRepo, redisClient)
	settingsService := services.NewSettingsService(settingsRepo)

	authHandler := handler.NewAuthHandler(userService)
	orderHandler := handler.NewOrderHandler(orderService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	userHandler := handler.NewUserHandler(userService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	settingsHandler := handler.NewSettingsHandler(settingsService)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", utils.AuthMiddleware(jwtUtil), authHandler.Me)
		}

		api.GET("/services", serviceHandler.GetServices)
		api.GET("/professionals", userHandler.GetProfessionals)
		api.GET("/professionals/:id", userHandler.GetUser)
		api.GET("/professionals/:id/reviews", reviewHandler.GetReviewsForProfessional)

		protected := api.Group("/")
		protected.Use(utils.AuthMiddleware(jwtUtil))
		{
			orders := protected.Group("/orders")
			{
				orders.POST("/", orderHandler.CreateOrder)
				orders.GET("/my", orderHandler.GetMyOrders)
				orders.GET("/:id", orderHandler.GetOrder)
				orders.PUT("/:id/status", orderHandler.UpdateStatus)
			}

			reviews := protected.Group("/reviews")
			{
				reviews.POST("/", reviewHandler.CreateReview)
				reviews.GET("/order/:orderId", reviewHandler.ReviewStatus)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("/", notificationHandler.GetNotifications)
				notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
				notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
				notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
				notifications.DELETE("/:id", notificationHandler.DeleteNotification)
				notifications.DELETE("/", notificationHandler.DeleteAll)
			}

			profile := protected.Group("/profile")
			{
				profile.PUT("/", userHandler.UpdateProfile)
				profile.PUT("/availability", userHandler.ToggleAvailability)
				profile.POST("/upgrade", userHandler.UpgradeToProfessional)
				profile.POST("/device-token", userHandler.RegisterDeviceToken)
			}

			admin := protected.Group("/admin")
			admin.Use(utils.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/orders", orderHandler.GetAllOrders)
				admin.DELETE("/orders/:id", orderHandler.DeleteOrder)

				admin.GET("/reviews", reviewHandler.GetAllReviews)
				admin.DELETE("/reviews/:id", reviewHandler.DeleteReview)

				admin.GET("/professionals", userHandler.GetAllProfessionals)
				admin.GET("/customers", userHandler.GetCustomers)
				admin.GET("/users/:id", userHandler.GetUser)
				admin.PUT("/users/:id", userHandler.AdminUpdateUser)
				admin.PUT("/users/:id/verification", userHandler.UpdateVerificationStatus)
				admin.DELETE("/users/:id", userHandler.DeleteUser)

				admin.POST("/services", serviceHandler.CreateService)
				admin.PUT("/services/:id", serviceHandler.UpdateService)
				admin.DELETE("/services/:id", serviceHandler.DeleteService)

				admin.GET("/settings", settingsHandler.GetAllSettings)
				admin.GET("/settings/:key", settingsHandler.GetSetting)
				admin.PUT("/settings", settingsHandler.UpsertSetting)
			}
		}
	}

	port := cfg.ServerPort
	if port == "" {
		port = ":8080"
	}

	server := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		log.Printf("Home services API running on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	shutdownManager.Wait()
}
