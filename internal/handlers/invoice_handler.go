package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/httpresp"
	ucInvoicing "github.com/cprservices/clinic-scheduler/internal/usecase/invoicing"
)

type InvoiceHandler struct {
	list         *ucInvoicing.ListInvoices
	get          *ucInvoicing.GetInvoice
	updateStatus *ucInvoicing.UpdateInvoiceStatus
}

func NewInvoiceHandler(
	list *ucInvoicing.ListInvoices,
	get *ucInvoicing.GetInvoice,
	updateStatus *ucInvoicing.UpdateInvoiceStatus,
) *InvoiceHandler {
	return &InvoiceHandler{
		list:         list,
		get:          get,
		updateStatus: updateStatus,
	}
}

type UpdateInvoiceRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *InvoiceHandler) List(c *gin.Context) {
	invs, err := h.list.Execute(c.Request.Context())
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	httpresp.List(c, invs)
}

// Get returns the invoice with its session-date list rebuilt from the
// billed appointment group.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	inv, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *InvoiceHandler) GroupAppointments(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	aps, err := h.get.GroupAppointments(c.Request.Context(), id)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, aps)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Données invalides.")
		return
	}

	inv, err := h.updateStatus.Execute(c.Request.Context(), id, req.Status)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
