package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/config"
	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/middleware"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the core services the routes depend on.
type Services struct {
	Tokens     core.TokenService
	Access     core.AccessService
	Users      core.UserService
	Lifecycle  core.LifecycleService
	Enrollment core.EnrollmentService
	Payments   core.PaymentService
	Store      Pinger
}

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (request id, logging, recovery, CORS) is applied in main.
// With STRICT_AUTH, moderation, promotion and deletion routes require a token and
// the admin role, and selections can only be deleted by their owner.
func SetupRoutes(router *gin.Engine, appConfig *config.Config, logger *zap.Logger, svc Services) {
	authMW := middleware.NewAuthMiddleware(svc.Access, logger)

	authHandler := NewAuthHandler(svc.Tokens, logger)
	userHandler := NewUserHandler(svc.Users, svc.Access, logger)
	classHandler := NewClassHandler(svc.Lifecycle, logger)
	selectionHandler := NewSelectionHandler(svc.Enrollment, logger)
	billingHandler := NewBillingHandler(svc.Payments, logger)

	adminOnly := []gin.HandlerFunc{}
	deleteSelection := []gin.HandlerFunc{selectionHandler.DeleteSelection}
	if appConfig.StrictAuth {
		adminOnly = []gin.HandlerFunc{authMW.VerifyToken(), authMW.RequireAdmin()}
		deleteSelection = []gin.HandlerFunc{authMW.VerifyToken(), selectionHandler.DeleteOwnSelection}
	}
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, adminOnly...), h)
	}

	router.POST("/jwt", authHandler.IssueToken)

	classes := router.Group("/danceclasses")
	{
		classes.GET("", classHandler.ListClasses)
		classes.PUT("", classHandler.PublishClass)
		classes.GET("/instructor/:email", classHandler.ListInstructorClasses)
	}

	users := router.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/admin/:email", authMW.VerifyToken(), userHandler.AdminStatus)
		users.GET("/instructor/:email", authMW.VerifyToken(), userHandler.InstructorStatus)
		users.PATCH("/admin/:id", guarded(userHandler.PromoteToAdmin)...)
		users.PATCH("/instructor/:id", guarded(userHandler.PromoteToInstructor)...)
		users.DELETE("/:id", guarded(userHandler.DeleteUser)...)
	}

	selected := router.Group("/selectedclass")
	{
		selected.GET("", authMW.VerifyToken(), selectionHandler.ListSelections)
		selected.GET("/paid", authMW.VerifyToken(), selectionHandler.ListPaidSelections)
		selected.POST("", selectionHandler.CreateSelection)
		selected.DELETE("/:id", deleteSelection...)
	}
	router.PATCH("/selectedclasses", selectionHandler.MarkPaid)

	router.GET("/pendingclasses/:email", classHandler.ListInstructorProposals)
	router.POST("/pendingclasses", classHandler.SubmitProposal)

	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/pendingclasses", classHandler.ListProposals)
		dashboard.PATCH("/approvedclasses/:id", guarded(classHandler.ApproveProposal)...)
		dashboard.PATCH("/deniedclasses/:id", guarded(classHandler.DenyProposal)...)
	}

	router.POST("/create-payment-intent", billingHandler.CreatePaymentIntent)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, welcomeText)
	})

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if svc.Store != nil {
			if err := svc.Store.Ping(ctx); err != nil {
				logger.Warn("Health check: store unreachable", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "DOWN", Store: "unreachable"})
				return
			}
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "UP", Store: "ok"})
	})

	logger.Info("API routes configured", zap.Bool("strict_auth", appConfig.StrictAuth))
}
