package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
)

// writeUsecaseError maps usecase errors onto the HTTP surface: slot
// conflicts become 409 with the conflicting patient attached, business
// codes split into 404/400 by naming convention, anything else is a 500.
func writeUsecaseError(c *gin.Context, err error) {
	if ce, ok := domain.AsConflict(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":        ce.Error(),
			"conflictInfo": ce.Info,
		})
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		if strings.HasSuffix(be.Code, "_not_found") {
			httperr.NotFound(c, be.Code, "Ressource introuvable.")
			return
		}
		httperr.BadRequest(c, be.Code, "Requête invalide.")
		return
	}

	httperr.Internal(c, "internal_error", "Erreur interne.")
}
