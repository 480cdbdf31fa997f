package invoicing

import (
	"context"
	"sort"

	"github.com/cprservices/clinic-scheduler/internal/domain/billing"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
	"github.com/cprservices/clinic-scheduler/internal/timezone"
)

// DefaultUnitPrice is the per-session rate in euros.
const DefaultUnitPrice = 50.00

const dueDays = 30

// Consolidator derives one invoice from a group of appointments booked
// together (a recurring series, a multi-slot batch, or a single slot).
type Consolidator struct {
	unitPrice float64
}

func NewConsolidator(unitPrice float64) *Consolidator {
	if unitPrice <= 0 {
		unitPrice = DefaultUnitPrice
	}
	return &Consolidator{unitPrice: unitPrice}
}

// Consolidate persists one invoice covering the given appointments. It
// runs against the repository the caller provides, so a booking
// transaction can include the invoice in its atomicity scope. The
// invoice references the chronologically first appointment and the
// group's shared invoice group id.
func (c *Consolidator) Consolidate(
	ctx context.Context,
	repo domain.Repository,
	appointments []models.Appointment,
) (*models.Invoice, error) {

	if len(appointments) == 0 {
		return nil, httperr.ErrBusiness("empty_appointment_group")
	}

	group := make([]models.Appointment, len(appointments))
	copy(group, appointments)
	sortChronologically(group)

	seq, err := repo.NextInvoiceSequence(ctx)
	if err != nil {
		return nil, err
	}

	now := timezone.Now()

	inv := models.Invoice{
		InvoiceNumber:  billing.InvoiceNumber(now.Year(), seq),
		PatientID:      group[0].PatientID,
		TherapistID:    group[0].TherapistID,
		AppointmentID:  group[0].ID,
		InvoiceGroupID: group[0].InvoiceGroupID,
		Amount:         c.unitPrice,
		TotalAmount:    c.unitPrice * float64(len(group)),
		Status:         "pending",
		IssueDate:      now,
		DueDate:        now.AddDate(0, 0, dueDays),
	}

	if len(group) > 1 {
		inv.Notes = billing.GroupedNotes(group)
	}

	if err := repo.CreateInvoice(ctx, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func sortChronologically(aps []models.Appointment) {
	sort.SliceStable(aps, func(i, j int) bool {
		ti, erri := domain.Combine(aps[i].Date, aps[i].Time)
		tj, errj := domain.Combine(aps[j].Date, aps[j].Time)
		if erri != nil || errj != nil {
			return aps[i].ID < aps[j].ID
		}
		return ti.Before(tj)
	})
}
