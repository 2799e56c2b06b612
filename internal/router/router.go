package router

import (
	"github.com/fruitfulhq/storefront-backend/config"
	"github.com/fruitfulhq/storefront-backend/internal/app/controller"
	"github.com/fruitfulhq/storefront-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	productController      *controller.ProductController
	cartController         *controller.CartController
	cartSyncController     *controller.CartSyncController
	couponController       *controller.CouponController
	deliveryController     *controller.DeliveryChargeController
	announcementController *controller.AnnouncementController
	orderController        *controller.OrderController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	cartSyncController *controller.CartSyncController,
	couponController *controller.CouponController,
	deliveryController *controller.DeliveryChargeController,
	announcementController *controller.AnnouncementController,
	orderController *controller.OrderController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		productController:      productController,
		cartController:         cartController,
		cartSyncController:     cartSyncController,
		couponController:       couponController,
		deliveryController:     deliveryController,
		announcementController: announcementController,
		orderController:        orderController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Fruitful storefront API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/otp/request", r.authController.RequestOTP)
			auth.POST("/otp/verify", r.authController.VerifyOTP)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
		}

		announcements := v1.Group("/announcements")
		{
			announcements.GET("", r.announcementController.ListLive)
		}

		// The cart works for guests and logged-in shoppers alike: optional
		// auth picks the mode, the session cookie names the guest cart
		cart := v1.Group("/cart",
			r.authMiddleware.OptionalAuthenticate(),
			middleware.GuestSession(),
		)
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddLine)
			cart.PUT("/:id", r.cartController.UpdateLine)
			cart.DELETE("/:id", r.cartController.RemoveLine)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/quote", r.cartController.Quote)
			cart.GET("/sync", r.cartSyncController.Subscribe)
		}

		coupons := v1.Group("/coupons")
		{
			coupons.POST("/redeem", r.couponController.RedeemCoupon)
		}

		delivery := v1.Group("/delivery-charges")
		{
			delivery.GET("/quote", r.deliveryController.QuoteCharge)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(middleware.RoleAdmin),
		)
		{
			adminCoupons := admin.Group("/coupons")
			{
				adminCoupons.GET("", r.couponController.ListCoupons)
				adminCoupons.GET("/:id", r.couponController.GetCoupon)
				adminCoupons.POST("", r.couponController.CreateCoupon)
				adminCoupons.PUT("/:id", r.couponController.UpdateCoupon)
				adminCoupons.DELETE("/:id", r.couponController.DeleteCoupon)
			}

			adminDelivery := admin.Group("/delivery-charges")
			{
				adminDelivery.GET("", r.deliveryController.ListCharges)
				adminDelivery.GET("/:id", r.deliveryController.GetCharge)
				adminDelivery.POST("", r.deliveryController.CreateCharge)
				adminDelivery.PUT("/:id", r.deliveryController.UpdateCharge)
				adminDelivery.DELETE("/:id", r.deliveryController.DeleteCharge)
			}

			adminAnnouncements := admin.Group("/announcements")
			{
				adminAnnouncements.GET("", r.announcementController.ListAll)
				adminAnnouncements.GET("/:id", r.announcementController.GetAnnouncement)
				adminAnnouncements.POST("", r.announcementController.CreateAnnouncement)
				adminAnnouncements.PUT("/:id", r.announcementController.UpdateAnnouncement)
				adminAnnouncements.DELETE("/:id", r.announcementController.DeleteAnnouncement)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", r.orderController.ListOrders)
				adminOrders.GET("/export", r.orderController.ExportOrders)
				adminOrders.GET("/:id", r.orderController.GetOrder)
				adminOrders.PUT("/:id/status", r.orderController.UpdateOrderStatus)
			}

			admin.POST("/upload/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
