package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/auth"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/booking"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/bookmark"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/config"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/email"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/notification"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/payment"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/review"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/station"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/user"
	"github.com/vaibhav-049/EV-Charging-Station-Booking-System/internal/wallet"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	email      *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	walletRepo := wallet.NewRepository(db)
	stationRepo := station.NewRepository(db)
	userRepo := user.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	bookingRepo := booking.NewRepository(db, walletRepo)
	paymentRepo := payment.NewRepository(db, walletRepo)

	bookingService := booking.NewService(bookingRepo, stationRepo, userRepo, notificationRepo, emailService)
	paymentService := payment.NewService(paymentRepo, userRepo, notificationRepo, emailService)

	userHandler := user.NewHandler(db, cfg.JWTSecret)
	stationHandler := station.NewHandler(db)
	walletHandler := wallet.NewHandler(db)
	reviewHandler := review.NewHandler(db)
	bookmarkHandler := bookmark.NewHandler(db)
	notificationHandler := notification.NewHandler(db)
	bookingHandler := booking.NewHandler(bookingService)
	paymentHandler := payment.NewHandler(paymentRepo, paymentService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	// Directory browsing works without an account; a valid token only
	// adds search-history tracking.
	directory := router.Group("/stations")
	directory.Use(auth.OptionalAuth(cfg.JWTSecret))
	{
		directory.GET("", stationHandler.List)
		directory.GET("/:stationID", stationHandler.Get)
		directory.GET("/:stationID/reviews", reviewHandler.ListStationReviews)
		directory.GET("/:stationID/comments", reviewHandler.ListStationComments)
	}

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/reviews", reviewHandler.ListMyReviews)
		protected.GET("/me/bookmarks", bookmarkHandler.ListMine)
		protected.GET("/me/searches", stationHandler.RecentSearches)
		protected.GET("/me/notifications", notificationHandler.List)
		protected.GET("/me/notifications/unread-count", notificationHandler.UnreadCount)
		protected.POST("/me/notifications/:notificationID/read", notificationHandler.MarkRead)

		protected.POST("/stations/:stationID/reviews", reviewHandler.AddReview)
		protected.POST("/stations/:stationID/comments", reviewHandler.AddComment)
		protected.POST("/stations/:stationID/bookmark", bookmarkHandler.Add)
		protected.DELETE("/stations/:stationID/bookmark", bookmarkHandler.Remove)

		protected.POST("/stations/:stationID/book", bookingHandler.Book)
		protected.POST("/bookings/:bookingID/cancel", bookingHandler.Cancel)
		protected.GET("/bookings", bookingHandler.Upcoming)
		protected.GET("/bookings/history", bookingHandler.History)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/wallet/topup", paymentHandler.Submit)
		protected.GET("/wallet/topup", paymentHandler.ListMine)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/stations", stationHandler.Upsert)
		admin.DELETE("/stations/:stationID", stationHandler.Delete)
		admin.GET("/users", userHandler.ListUsers)
		admin.GET("/bookings", bookingHandler.ListAll)
		admin.GET("/payments", paymentHandler.ListAll)
		admin.GET("/payments/pending", paymentHandler.ListPending)
		admin.POST("/payments/:requestID/approve", paymentHandler.Approve)
		admin.POST("/payments/:requestID/reject", paymentHandler.Reject)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
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
