package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-booking/internal/audit"
	"github.com/BruksfildServices01/salon-booking/internal/config"
	"github.com/BruksfildServices01/salon-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-booking/internal/infra/repository"
	"github.com/BruksfildServices01/salon-booking/internal/middleware"
	"github.com/BruksfildServices01/salon-booking/internal/models"
	"github.com/BruksfildServices01/salon-booking/internal/notify"
	"github.com/BruksfildServices01/salon-booking/internal/timezone"
	"github.com/BruksfildServices01/salon-booking/internal/validators"
	ucBooking "github.com/BruksfildServices01/salon-booking/internal/usecase/booking"
	ucOrder "github.com/BruksfildServices01/salon-booking/internal/usecase/order"
)

// Dependencies are the process-wide singletons the routes are built from.
// Images, Audit, Probes and EmailCheck may be nil.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Notifier notify.Notifier
	Audit    *audit.Dispatcher
	Images   handlers.ImageUploader
	Probes   map[string]handlers.Pinger

	EmailCheck validators.EmailChecker
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	db := deps.DB
	log := deps.Logger
	loc := timezone.Location(cfg.SalonTimezone)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, cfg.BusinessHours, loc)
	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, cfg.BusinessHours, loc, deps.Notifier, deps.Audit, log)
	changeBookingUC := ucBooking.NewChangeBookingStatus(bookingRepo, loc, deps.Notifier, deps.Audit, log)
	listBookingsUC := ucBooking.NewListBookings(bookingRepo, loc)

	checkoutUC := ucOrder.NewCheckout(db, deps.Notifier, deps.Audit, log)
	changeOrderUC := ucOrder.NewChangeOrderStatus(db, deps.Notifier, deps.Audit, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(db, deps.Probes)
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret, deps.EmailCheck)
	meHandler := handlers.NewMeHandler(db)
	userHandler := handlers.NewUserHandler(db, deps.Audit)

	stylistHandler := handlers.NewStylistHandler(db, deps.Images, deps.Audit, log)
	serviceHandler := handlers.NewServiceHandler(db, deps.Audit)
	productHandler := handlers.NewProductHandler(db, deps.Images, deps.Audit, log)

	bookingHandler := handlers.NewBookingHandler(
		db,
		loc,
		availabilityUC,
		createBookingUC,
		changeBookingUC,
		listBookingsUC,
		deps.Audit,
	)

	cartHandler := handlers.NewCartHandler(db)
	orderHandler := handlers.NewOrderHandler(db, checkoutUC, changeOrderUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	r.GET("/health", healthHandler.Check)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/availability", bookingHandler.Availability)

		api.GET("/stylists", stylistHandler.List)
		api.GET("/stylists/:id", stylistHandler.Get)
		api.GET("/services", serviceHandler.List)
		api.GET("/products", productHandler.List)
		api.GET("/products/:id", productHandler.Get)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/bookings", bookingHandler.ListMine)
			secured.GET("/me/orders", orderHandler.ListMine)

			secured.POST("/bookings", middleware.RequireRole(models.RoleUser, models.RoleAdmin), bookingHandler.Create)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/confirm", bookingHandler.Confirm)

			secured.GET("/cart", cartHandler.Get)
			secured.POST("/cart", cartHandler.Add)
			secured.PATCH("/cart/:productId", cartHandler.Set)
			secured.DELETE("/cart/:productId", cartHandler.Remove)
			secured.POST("/checkout", orderHandler.Checkout)
		}

		// ------------------------------
		// STYLIST
		// ------------------------------
		stylist := api.Group("/stylist")
		stylist.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(models.RoleStylist))
		{
			stylist.GET("/bookings", bookingHandler.ListForStylist)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", userHandler.List)
			admin.PATCH("/users/:id/role", userHandler.UpdateRole)
			admin.DELETE("/users/:id", userHandler.Delete)

			admin.POST("/stylists", stylistHandler.Create)
			admin.PATCH("/stylists/:id", stylistHandler.Update)
			admin.POST("/stylists/:id/image", stylistHandler.UploadImage)

			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)

			admin.POST("/products", productHandler.Create)
			admin.PATCH("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)
			admin.POST("/products/:id/image", productHandler.UploadImage)

			admin.GET("/bookings", bookingHandler.ListForPeriod)
			admin.DELETE("/bookings/:id", bookingHandler.Delete)

			admin.GET("/orders", orderHandler.ListAll)
			admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

// NewEngine builds a gin engine with the global middleware chain.
func NewEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORSMiddleware(),
		middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(cfg.RateLimitPerMin)),
	)
	r.MaxMultipartMemory = 8 << 20
	return r
}
