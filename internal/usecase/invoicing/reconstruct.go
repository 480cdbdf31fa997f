package invoicing

import (
	"context"
	"fmt"

	"github.com/cprservices/clinic-scheduler/internal/domain/billing"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

// GetInvoice loads an invoice and re-derives its view-only fields from
// the current appointment group: the full chronological session-date
// list and the regenerated notes summary merged with any user-authored
// lines. Pure given the same underlying data; nothing is persisted.
type GetInvoice struct {
	repo domain.Repository
}

func NewGetInvoice(repo domain.Repository) *GetInvoice {
	return &GetInvoice{repo: repo}
}

func (uc *GetInvoice) Execute(ctx context.Context, id uint) (*models.Invoice, error) {
	inv, err := uc.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	group, err := uc.groupAppointments(ctx, inv)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		return inv, nil
	}

	sortChronologically(group)

	inv.AppointmentDates = make([]string, 0, len(group))
	for _, ap := range group {
		inv.AppointmentDates = append(inv.AppointmentDates, fmt.Sprintf("%s à %s", ap.Date, ap.Time))
	}

	if len(group) > 1 {
		inv.Notes = billing.MergeNotes(inv.Notes, billing.GroupedNotes(group))
	}
	return inv, nil
}

// GroupAppointments returns the appointments billed by an invoice, in
// chronological order.
func (uc *GetInvoice) GroupAppointments(ctx context.Context, id uint) ([]models.Appointment, error) {
	inv, err := uc.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	group, err := uc.groupAppointments(ctx, inv)
	if err != nil {
		return nil, err
	}
	sortChronologically(group)
	return group, nil
}

// groupAppointments resolves the billed group by the invoice group id;
// invoices predating group ids fall back to the recurring parent
// lineage of the referenced appointment.
func (uc *GetInvoice) groupAppointments(ctx context.Context, inv *models.Invoice) ([]models.Appointment, error) {
	if inv.InvoiceGroupID != "" {
		return uc.repo.ListAppointmentsByGroup(ctx, inv.InvoiceGroupID)
	}
	return uc.repo.ListAppointmentsByParent(ctx, inv.AppointmentID)
}
