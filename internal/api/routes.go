package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"truefit-backend-go/internal/auth"
	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/models"
)

// Services bundles the core services the router dispatches to.
type Services struct {
	Users        core.UserService
	Applications core.ApplicationService
	Classes      core.ClassService
	Slots        core.SlotService
	Forum        core.ForumService
	Billing      core.BillingService
	Reviews      core.ReviewService
	Subscribers  core.SubscriberService
}

// RouterDeps carries everything SetupRoutes needs besides the services.
type RouterDeps struct {
	Verifier auth.Verifier
	Roles    core.RoleResolver
	// Tokens enables POST /jwt. It is nil when tokens come from Firebase.
	Tokens      *auth.JWTManager
	RateLimiter *middleware.IPRateLimiter
	Metrics     *middleware.Metrics
	Logger      *zap.Logger
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (logging, recovery, CORS, metrics) is expected on router already.
func SetupRoutes(router *gin.Engine, deps RouterDeps, svc Services) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	authMW := middleware.NewAuthMiddleware(deps.Verifier, deps.Roles, logger)
	token := authMW.VerifyToken()
	admin := authMW.RequireRole(models.RoleAdmin)
	trainer := authMW.RequireRole(models.RoleTrainer)

	userHandler := NewUserHandler(svc.Users, logger)
	applicationHandler := NewApplicationHandler(svc.Applications, logger)
	classHandler := NewClassHandler(svc.Classes, logger)
	slotHandler := NewSlotHandler(svc.Slots, logger)
	forumHandler := NewForumHandler(svc.Forum, logger)
	billingHandler := NewBillingHandler(svc.Billing, logger)
	communityHandler := NewCommunityHandler(svc.Reviews, svc.Subscribers, logger)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "TrueFit server is running")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "TrueFit backend is healthy."})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Exposition()))
	}

	// --- Auth ---
	if deps.Tokens != nil {
		issue := NewAuthHandler(deps.Tokens, logger).IssueToken
		if deps.RateLimiter != nil {
			router.POST("/jwt", deps.RateLimiter.Handler(), issue)
		} else {
			router.POST("/jwt", issue)
		}
	}

	// --- Users ---
	router.POST("/users", userHandler.UpsertUser)
	router.PATCH("/users/:email", userHandler.TouchLogin)
	router.GET("/users/:email", userHandler.GetUser)
	router.GET("/users/role/:email", token, userHandler.GetRole)
	router.PATCH("/user/:email", token, userHandler.UpdateProfile)

	// --- Trainers ---
	router.GET("/trainers", userHandler.ListTrainers)
	router.GET("/trainers/:id", userHandler.GetTrainer)
	router.PATCH("/trainers/:id", token, admin, userHandler.DemoteTrainer)
	router.GET("/top-trainers", userHandler.TopTrainers)

	// --- Trainer applications ---
	router.POST("/apply", token, applicationHandler.Apply)
	router.GET("/applications", token, admin, applicationHandler.ListPending)
	router.GET("/application/:email", applicationHandler.GetApplication)
	router.PATCH("/confirm/:email", token, admin, applicationHandler.Approve)
	router.PATCH("/reject/:email", token, admin, applicationHandler.Reject)

	// --- Classes ---
	router.POST("/classes", token, admin, classHandler.CreateClass)
	router.GET("/classes", classHandler.ListClasses)
	router.GET("/top-classes", classHandler.TopClasses)
	router.GET("/all-classes", classHandler.AllClasses)

	// --- Slots ---
	router.POST("/add-slot", token, trainer, slotHandler.AddSlot)
	router.GET("/slots/:id", slotHandler.ListByTrainer)
	router.GET("/slot/:slotId", slotHandler.GetSlot)
	router.DELETE("/slots/:id", token, trainer, slotHandler.DeleteSlot)

	// --- Forum ---
	router.POST("/forum", token, forumHandler.CreatePost)
	router.GET("/forum", forumHandler.ListPosts)
	router.GET("/trainer-forum", token, trainer, forumHandler.TrainerPosts)
	router.PATCH("/forum/upvote/:id", token, forumHandler.Vote(models.VoteUp))
	router.PATCH("/forum/downvote/:id", token, forumHandler.Vote(models.VoteDown))

	// --- Payments and bookings ---
	paymentGroup := router.Group("/api")
	{
		paymentGroup.POST("/create-payment-intent", token, billingHandler.CreatePaymentIntent)
		// Public: the client calls this right after the processor confirms the payment.
		paymentGroup.POST("/save-payment-info", billingHandler.SavePaymentInfo)
	}
	router.GET("/bookings/:email", token, billingHandler.GetBooking)
	router.GET("/financial-overview", token, admin, billingHandler.FinancialOverview)

	// --- Reviews and subscribers ---
	router.POST("/reviews", token, communityHandler.CreateReview)
	router.GET("/reviews", communityHandler.ListReviews)
	router.POST("/subscribers", communityHandler.Subscribe)
	router.GET("/subscribers", token, admin, communityHandler.ListSubscribers)
	router.GET("/subscribers-vs-members", token, admin, communityHandler.MembershipStats)

	logger.Info("API routes configured", zap.Int("routes", len(router.Routes())))
}
