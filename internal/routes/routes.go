package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	"github.com/cprservices/clinic-scheduler/internal/config"
	"github.com/cprservices/clinic-scheduler/internal/handlers"
	infraRepo "github.com/cprservices/clinic-scheduler/internal/infra/repository"
	"github.com/cprservices/clinic-scheduler/internal/middleware"
	"github.com/cprservices/clinic-scheduler/internal/redislock"
	ucBooking "github.com/cprservices/clinic-scheduler/internal/usecase/booking"
	ucInvoicing "github.com/cprservices/clinic-scheduler/internal/usecase/invoicing"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, locker redislock.Locker, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	consolidator := ucInvoicing.NewConsolidator(ucInvoicing.DefaultUnitPrice)

	// ======================================================
	// USE CASES — BOOKING
	// ======================================================
	checkAvailabilityUC := ucBooking.NewCheckAvailability(schedulingRepo)

	createAppointmentUC := ucBooking.NewCreateAppointment(
		schedulingRepo,
		locker,
		consolidator,
		auditDispatcher,
	)

	createRecurringUC := ucBooking.NewCreateRecurring(
		schedulingRepo,
		consolidator,
		auditDispatcher,
	)

	createMultipleUC := ucBooking.NewCreateMultiple(
		schedulingRepo,
		consolidator,
		auditDispatcher,
	)

	createMultiTherapistUC := ucBooking.NewCreateMultiTherapist(
		schedulingRepo,
		consolidator,
		auditDispatcher,
	)

	updateAppointmentUC := ucBooking.NewUpdateAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	deleteAppointmentUC := ucBooking.NewDeleteAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	listAppointmentsUC := ucBooking.NewListAppointments(schedulingRepo)

	// ======================================================
	// USE CASES — INVOICING
	// ======================================================
	listInvoicesUC := ucInvoicing.NewListInvoices(schedulingRepo)
	getInvoiceUC := ucInvoicing.NewGetInvoice(schedulingRepo)
	updateInvoiceStatusUC := ucInvoicing.NewUpdateInvoiceStatus(
		schedulingRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	availabilityHandler := handlers.NewAvailabilityHandler(checkAvailabilityUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		createRecurringUC,
		createMultipleUC,
		createMultiTherapistUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
	)

	invoiceHandler := handlers.NewInvoiceHandler(
		listInvoicesUC,
		getInvoiceUC,
		updateInvoiceStatusUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/availability", availabilityHandler.Check)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.POST("/appointments/multiple", appointmentHandler.CreateMultiple)
			secured.POST("/appointments/multi-therapist", appointmentHandler.CreateMultiTherapist)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.DELETE("/appointments", appointmentHandler.DeleteMany)

			// ------------------------------
			// INVOICES
			// ------------------------------
			secured.GET("/invoices", invoiceHandler.List)
			secured.GET("/invoices/:id", invoiceHandler.Get)
			secured.GET("/invoices/:id/appointments", invoiceHandler.GroupAppointments)
			secured.PUT("/invoices/:id", invoiceHandler.UpdateStatus)
		}
	}
}
