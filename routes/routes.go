package routes

import (
	"net/http"
	"time"

	"grabbi-storefront/apiclient"
	"grabbi-storefront/database"
	"grabbi-storefront/dtos"
	"grabbi-storefront/firebase"
	"grabbi-storefront/handlers"
	"grabbi-storefront/metrics"
	"grabbi-storefront/middleware"
	"grabbi-storefront/redemption"
	"grabbi-storefront/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the collaborators shared by the page handlers. Journal and
// Storage are optional.
type Deps struct {
	API           *apiclient.Client
	Sessions      session.Store
	Journal       *database.Journal
	Storage       firebase.StorageClient
	Logger        logrus.FieldLogger
	SessionTTL    time.Duration
	RedirectDelay time.Duration
	AuthRateLimit int
}

func SetupRoutes(r *gin.Engine, d Deps) {
	flow := &redemption.Flow{
		API:           d.API,
		Sessions:      d.Sessions,
		Logger:        d.Logger,
		RedirectDelay: d.RedirectDelay,
	}
	if d.Journal != nil {
		flow.Journal = d.Journal
	}

	// Initialize handlers
	authHandler := &handlers.AuthHandler{API: d.API, Sessions: d.Sessions, SessionTTL: d.SessionTTL, Logger: d.Logger}
	productHandler := &handlers.ProductHandler{API: d.API}
	addressHandler := &handlers.AddressHandler{API: d.API}
	cartHandler := &handlers.CartHandler{API: d.API, Sessions: d.Sessions, Logger: d.Logger}
	rewardHandler := &handlers.RewardHandler{API: d.API, Flow: flow}
	voucherHandler := &handlers.VoucherHandler{API: d.API, Sessions: d.Sessions, Logger: d.Logger}
	jobHandler := &handlers.JobApplicationHandler{API: d.API}
	staffHandler := &handlers.StaffHandler{API: d.API}
	stockHandler := &handlers.StockHandler{API: d.API, Logger: d.Logger}
	deliveryHandler := &handlers.DeliveryStaffHandler{API: d.API, Storage: d.Storage, Logger: d.Logger}
	fulfilmentHandler := &handlers.FulfilmentStaffHandler{API: d.API}
	attemptHandler := &handlers.GiftAttemptHandler{Journal: d.Journal}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	authLimiter := middleware.NewRateLimiter(d.AuthRateLimit, time.Minute)
	requireSession := middleware.SessionAuth(d.Sessions, d.Logger)

	// Public routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(authLimiter.Middleware())
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-otp", authHandler.VerifyOTP)
		auth.POST("/google", authHandler.GoogleSignIn)

		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)

		api.GET("/rewards", rewardHandler.GetRewards)
		api.GET("/rewards/:id", rewardHandler.GetReward)

		api.POST("/job-applications", jobHandler.SubmitApplication)
	}

	// Protected routes (require a session)
	protected := api.Group("")
	protected.Use(requireSession)
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/profile", authHandler.Profile)

		protected.GET("/addresses", addressHandler.GetAddresses)
		protected.POST("/addresses", addressHandler.CreateAddress)
		protected.PUT("/addresses/:id", addressHandler.UpdateAddress)
		protected.DELETE("/addresses/:id", addressHandler.DeleteAddress)

		protected.GET("/cart", cartHandler.GetCart)
		protected.POST("/cart", cartHandler.AddToCart)
		protected.PUT("/cart/:id", cartHandler.UpdateCartItem)
		protected.DELETE("/cart/:id", cartHandler.RemoveFromCart)

		protected.GET("/rewards/redeemed", rewardHandler.GetRedeemedRewards)
		protected.POST("/rewards/:id/redeem", rewardHandler.RedeemReward)
		protected.POST("/rewards/:id/gift", rewardHandler.GiftReward)

		protected.GET("/vouchers", voucherHandler.GetVouchers)
		protected.POST("/vouchers/:id/claim", voucherHandler.ClaimVoucher)
	}

	// Back-office routes shared by staff and admins
	backOffice := api.Group("/admin")
	backOffice.Use(requireSession)
	backOffice.Use(middleware.RequireRole(dtos.RoleStaff, dtos.RoleAdmin))
	{
		backOffice.POST("/stock/import", stockHandler.ImportStock)
		backOffice.GET("/job-applications", jobHandler.GetApplications)
		backOffice.PUT("/job-applications/:id/status", jobHandler.UpdateStatus)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(requireSession)
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/staff", staffHandler.GetStaff)
		admin.POST("/staff", staffHandler.CreateStaff)
		admin.DELETE("/staff/:id", staffHandler.DeleteStaff)

		admin.POST("/delivery-staff", deliveryHandler.RegisterDeliveryStaff)

		admin.GET("/fulfilment-staff", fulfilmentHandler.GetFulfilmentStaff)
		admin.POST("/fulfilment-staff", fulfilmentHandler.CreateFulfilmentStaff)
		admin.DELETE("/fulfilment-staff/:id", fulfilmentHandler.DeleteFulfilmentStaff)

		admin.GET("/gift-attempts", attemptHandler.GetAttempts)
		admin.GET("/gift-attempts/:id", attemptHandler.GetAttempt)
	}
}
