package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/audit"
	"github.com/garagedesk/shop-scheduler/internal/cache"
	"github.com/garagedesk/shop-scheduler/internal/config"
	"github.com/garagedesk/shop-scheduler/internal/handlers"
	infraRepo "github.com/garagedesk/shop-scheduler/internal/infra/repository"
	"github.com/garagedesk/shop-scheduler/internal/media"
	"github.com/garagedesk/shop-scheduler/internal/middleware"
	ucScheduling "github.com/garagedesk/shop-scheduler/internal/usecase/scheduling"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	denylist *cache.TokenDenylist,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	uploader := media.NewUploader(cfg)

	// ======================================================
	// USE CASES — SCHEDULING
	// ======================================================
	listSlotsUC := ucScheduling.NewListAvailableSlots(appointmentRepo)
	checkBlockUC := ucScheduling.NewCheckTimeBlock(appointmentRepo)
	checkDayUC := ucScheduling.NewCheckDailyCapacity(appointmentRepo)

	createAppointmentUC := ucScheduling.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	updateAppointmentUC := ucScheduling.NewUpdateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	deleteAppointmentUC := ucScheduling.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	assignAppointmentUC := ucScheduling.NewAssignAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	customerCancelUC := ucScheduling.NewCustomerCancel(
		appointmentRepo,
		auditDispatcher,
	)

	customerRescheduleUC := ucScheduling.NewCustomerReschedule(
		appointmentRepo,
		auditDispatcher,
	)

	listByDateUC := ucScheduling.NewListAppointmentsByDate(appointmentRepo)
	listByMonthUC := ucScheduling.NewListAppointmentsByMonth(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, denylist)
	meHandler := handlers.NewMeHandler(db)

	shopHandler := handlers.NewShopHandler(db)
	operatingHoursHandler := handlers.NewOperatingHoursHandler(db)
	capacitySettingsHandler := handlers.NewCapacitySettingsHandler(db)

	serviceHandler := handlers.NewServiceHandler(db)
	customerHandler := handlers.NewCustomerHandler(db)
	vehicleHandler := handlers.NewVehicleHandler(db, uploader)

	availabilityHandler := handlers.NewAvailabilityHandler(
		db,
		listSlotsUC,
		checkBlockUC,
		checkDayUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		assignAppointmentUC,
		listByDateUC,
		listByMonthUC,
	)

	portalHandler := handlers.NewPortalHandler(
		db,
		createAppointmentUC,
		customerCancelUC,
		customerRescheduleUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/staff/register", authHandler.StaffRegister)
		api.POST("/auth/staff/login", authHandler.StaffLogin)
		api.POST("/auth/customer/register", authHandler.CustomerRegister)
		api.POST("/auth/customer/login", authHandler.CustomerLogin)

		// ------------------------------
		// STAFF API
		// ------------------------------
		staff := api.Group("/")
		staff.Use(middleware.AuthMiddleware(cfg, denylist, middleware.ScopeStaff))
		{
			staff.POST("/auth/logout", authHandler.Logout)
			staff.GET("/me", meHandler.GetStaffMe)

			staff.GET("/shop", shopHandler.Get)
			staff.PATCH("/shop", shopHandler.Update)

			staff.GET("/operating-hours", operatingHoursHandler.List)
			staff.PUT("/operating-hours/:weekday", operatingHoursHandler.Update)

			staff.GET("/capacity-settings", capacitySettingsHandler.Get)
			staff.PATCH("/capacity-settings", capacitySettingsHandler.Update)

			staff.GET("/services", serviceHandler.List)
			staff.POST("/services", serviceHandler.Create)
			staff.PATCH("/services/:id", serviceHandler.Update)

			staff.GET("/customers", customerHandler.List)
			staff.POST("/customers", customerHandler.Create)
			staff.PATCH("/customers/:id", customerHandler.Update)

			staff.GET("/vehicles", vehicleHandler.List)
			staff.POST("/vehicles", vehicleHandler.Create)
			staff.PATCH("/vehicles/:id", vehicleHandler.Update)
			staff.POST("/vehicles/:id/photo", vehicleHandler.UploadPhoto)

			staff.GET("/availability/slots", availabilityHandler.ListSlots)
			staff.GET("/availability/time-block", availabilityHandler.CheckTimeBlock)
			staff.GET("/availability/day", availabilityHandler.CheckDay)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			staff.POST("/appointments", appointmentHandler.Create)
			staff.GET("/appointments", appointmentHandler.ListByDate)
			staff.GET("/appointments/month", appointmentHandler.ListByMonth)
			staff.GET("/appointments/:id", appointmentHandler.Get)
			staff.PATCH("/appointments/:id", appointmentHandler.Update)
			staff.DELETE("/appointments/:id", appointmentHandler.Delete)
			staff.PATCH("/appointments/:id/assign", appointmentHandler.Assign)

			staff.GET("/audit-logs", auditLogsHandler.List)
		}

		// ------------------------------
		// CUSTOMER PORTAL
		// ------------------------------
		portal := api.Group("/portal")
		portal.Use(middleware.AuthMiddleware(cfg, denylist, middleware.ScopeCustomer))
		{
			portal.POST("/auth/logout", authHandler.Logout)
			portal.GET("/me", meHandler.GetCustomerMe)

			portal.GET("/vehicles", vehicleHandler.ListOwn)

			portal.GET("/availability/slots", availabilityHandler.ListSlots)

			portal.POST("/appointments", portalHandler.Book)
			portal.GET("/appointments", portalHandler.ListOwn)
			portal.PATCH("/appointments/:id/reschedule", portalHandler.Reschedule)
			portal.PATCH("/appointments/:id/cancel", portalHandler.Cancel)
		}
	}
}
