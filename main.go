package main

import (
	"net/http"
	"os"
	"strconv"

	"gramsync-be/config"
	"gramsync-be/controllers"
	"gramsync-be/models"
	"gramsync-be/repository"
	"gramsync-be/routes"
	"gramsync-be/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	log := config.NewLogger()
	if envErr != nil {
		log.Info("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Info("MongoDB connection established successfully!")

	config.ConnectRedis()

	if err := models.EnsureEngagementIndex(config.GetCollection("query_likes")); err != nil {
		log.WithError(err).Fatal("Failed to create like index")
	}
	if err := models.EnsureEngagementIndex(config.GetCollection("query_upvotes")); err != nil {
		log.WithError(err).Fatal("Failed to create upvote index")
	}
	if err := models.EnsureRatingIndexes(config.GetCollection("office_ratings"), config.GetCollection("ngo_ratings")); err != nil {
		log.WithError(err).Fatal("Failed to create rating indexes")
	}

	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	userRepo := repository.NewUserRepository(db)

	bus := service.NewBus(notificationRepo, auditRepo, log)
	defer bus.Close()

	upvoteThreshold := int64(0)
	if raw := os.Getenv("UPVOTE_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			upvoteThreshold = parsed
		}
	}

	lifecycle := service.NewLifecycle(service.LifecycleDeps{
		Tx:              repository.NewTxRunner(config.MongoClient()),
		Queries:         repository.NewQueryRepository(db),
		Updates:         repository.NewQueryUpdateRepository(db),
		Assignments:     repository.NewAssignmentRepository(db),
		Ratings:         repository.NewRatingRepository(db),
		Engagement:      repository.NewEngagementRepository(db),
		Users:           userRepo,
		Bus:             bus,
		Log:             log,
		UpvoteThreshold: upvoteThreshold,
	})

	complaints := service.NewComplaintService(
		repository.NewComplaintRepository(db),
		repository.NewQueryRepository(db),
		userRepo,
		bus,
		log,
	)
	notifications := service.NewNotificationService(notificationRepo)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origin := os.Getenv("CORS_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = []string{origin}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowCredentials = !corsConfig.AllowAllOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r, controllers.NewAuthController(userRepo, log))
	routes.QueryRoutes(r, controllers.NewQueryController(lifecycle, log))
	routes.ComplaintRoutes(r, controllers.NewComplaintController(complaints, log))
	routes.NotificationRoutes(r, controllers.NewNotificationController(notifications, log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
