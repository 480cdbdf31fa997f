package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/httpresp"
	"github.com/cprservices/clinic-scheduler/internal/middleware"
	ucBooking "github.com/cprservices/clinic-scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create         *ucBooking.CreateAppointment
	createRec      *ucBooking.CreateRecurring
	createMulti    *ucBooking.CreateMultiple
	createMultiTh  *ucBooking.CreateMultiTherapist
	update         *ucBooking.UpdateAppointment
	deleteUC       *ucBooking.DeleteAppointment
	list           *ucBooking.ListAppointments
}

func NewAppointmentHandler(
	create *ucBooking.CreateAppointment,
	createRec *ucBooking.CreateRecurring,
	createMulti *ucBooking.CreateMultiple,
	createMultiTh *ucBooking.CreateMultiTherapist,
	update *ucBooking.UpdateAppointment,
	deleteUC *ucBooking.DeleteAppointment,
	list *ucBooking.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:        create,
		createRec:     createRec,
		createMulti:   createMulti,
		createMultiTh: createMultiTh,
		update:        update,
		deleteUC:      deleteUC,
		list:          list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PatientID   uint   `json:"patientId" binding:"required"`
	TherapistID uint   `json:"therapistId" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`

	IsRecurring        bool   `json:"isRecurring"`
	RecurringFrequency string `json:"recurringFrequency"`
	RecurringCount     int    `json:"recurringCount"`

	GroupedInvoice        *bool `json:"groupedInvoice"`
	SkipInvoiceGeneration bool  `json:"skipInvoiceGeneration"`
}

type CreateMultipleRequest struct {
	PatientID   uint              `json:"patientId" binding:"required"`
	TherapistID uint              `json:"therapistId" binding:"required"`
	Slots       []domain.DateTime `json:"slots" binding:"required"`
	Notes       string            `json:"notes"`

	SkipInvoiceGeneration bool `json:"skipInvoiceGeneration"`
}

type CreateMultiTherapistRequest struct {
	PatientID    uint                     `json:"patientId" binding:"required"`
	TherapistIDs []uint                   `json:"therapistIds" binding:"required"`
	Schedules    map[uint]domain.DateTime `json:"schedules"`
	DefaultDate  string                   `json:"defaultDate"`
	DefaultTime  string                   `json:"defaultTime"`
	Notes        string                   `json:"notes"`

	SkipInvoiceGeneration bool `json:"skipInvoiceGeneration"`
}

type UpdateAppointmentRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
	Date   *string `json:"date"`
	Time   *string `json:"time"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ======================================================
// CREATE (single / recurring)
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}
	if !callerMayBookFor(c, req.TherapistID) {
		httperr.Forbidden(c, "forbidden", "Accès refusé.")
		return
	}

	if req.IsRecurring {
		grouped := true
		if req.GroupedInvoice != nil {
			grouped = *req.GroupedInvoice
		}

		out, err := h.createRec.Execute(c.Request.Context(), ucBooking.CreateRecurringInput{
			PatientID:             req.PatientID,
			TherapistID:           req.TherapistID,
			Date:                  req.Date,
			Time:                  req.Time,
			Frequency:             req.RecurringFrequency,
			Count:                 req.RecurringCount,
			Notes:                 req.Notes,
			GroupedInvoice:        grouped,
			SkipInvoiceGeneration: req.SkipInvoiceGeneration,
		})
		if err != nil {
			writeUsecaseError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
		return
	}

	out, err := h.create.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		PatientID:             req.PatientID,
		TherapistID:           req.TherapistID,
		Date:                  req.Date,
		Time:                  req.Time,
		Notes:                 req.Notes,
		SkipInvoiceGeneration: req.SkipInvoiceGeneration,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ======================================================
// CREATE (multiple explicit slots)
// ======================================================

func (h *AppointmentHandler) CreateMultiple(c *gin.Context) {
	var req CreateMultipleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}
	if !callerMayBookFor(c, req.TherapistID) {
		httperr.Forbidden(c, "forbidden", "Accès refusé.")
		return
	}

	out, err := h.createMulti.Execute(c.Request.Context(), ucBooking.CreateMultipleInput{
		PatientID:             req.PatientID,
		TherapistID:           req.TherapistID,
		Slots:                 req.Slots,
		Notes:                 req.Notes,
		SkipInvoiceGeneration: req.SkipInvoiceGeneration,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ======================================================
// CREATE (multiple therapists)
// ======================================================

func (h *AppointmentHandler) CreateMultiTherapist(c *gin.Context) {
	var req CreateMultiTherapistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}
	if role(c) == middleware.RoleTherapist {
		httperr.Forbidden(c, "forbidden", "Accès refusé.")
		return
	}

	out, err := h.createMultiTh.Execute(c.Request.Context(), ucBooking.CreateMultiTherapistInput{
		PatientID:             req.PatientID,
		TherapistIDs:          req.TherapistIDs,
		Schedules:             req.Schedules,
		DefaultDate:           req.DefaultDate,
		DefaultTime:           req.DefaultTime,
		Notes:                 req.Notes,
		SkipInvoiceGeneration: req.SkipInvoiceGeneration,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	filter := domain.AppointmentFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}

	if idStr := c.Query("therapistId"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_therapist_id", "Identifiant invalide.")
			return
		}
		filter.TherapistID = uint(id)
	}

	// Therapist users only see their own agenda.
	if role(c) == middleware.RoleTherapist {
		filter.TherapistID = middleware.CallerTherapistID(c)
	}

	aps, err := h.list.Execute(c.Request.Context(), filter)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	httpresp.List(c, aps)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucBooking.UpdateAppointmentInput{
		ID:     id,
		Status: req.Status,
		Notes:  req.Notes,
		Date:   req.Date,
		Time:   req.Time,
	})
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) DeleteMany(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	res := h.deleteUC.ExecuteMany(c.Request.Context(), req.IDs)
	if len(res.Failures) > 0 {
		c.JSON(http.StatusMultiStatus, res)
		return
	}
	c.Status(http.StatusNoContent)
}

// ======================================================
// HELPERS
// ======================================================

func role(c *gin.Context) string {
	if v, ok := c.Get(middleware.ContextUserRole); ok {
		if r, ok := v.(string); ok {
			return r
		}
	}
	return ""
}

// callerMayBookFor restricts therapist users to their own agenda;
// admin and secretariat book for anyone.
func callerMayBookFor(c *gin.Context, therapistID uint) bool {
	if role(c) != middleware.RoleTherapist {
		return true
	}
	return middleware.CallerTherapistID(c) == therapistID
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identifiant invalide.")
		return 0, false
	}
	return uint(id), true
}
