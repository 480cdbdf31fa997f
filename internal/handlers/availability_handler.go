package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cprservices/clinic-scheduler/internal/httperr"
	ucBooking "github.com/cprservices/clinic-scheduler/internal/usecase/booking"
)

type AvailabilityHandler struct {
	check *ucBooking.CheckAvailability
}

func NewAvailabilityHandler(check *ucBooking.CheckAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{check: check}
}

// Check answers GET /api/availability?therapistId&date&time.
func (h *AvailabilityHandler) Check(c *gin.Context) {
	therapistIDStr := c.Query("therapistId")
	date := c.Query("date")
	timeStr := c.Query("time")

	if therapistIDStr == "" || date == "" || timeStr == "" {
		httperr.BadRequest(c, "missing_parameters", "therapistId, date et time sont obligatoires.")
		return
	}

	therapistID, err := strconv.ParseUint(therapistIDStr, 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_therapist_id", "Identifiant invalide.")
		return
	}

	res, err := h.check.Execute(c.Request.Context(), uint(therapistID), date, timeStr)
	if err != nil {
		writeUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
