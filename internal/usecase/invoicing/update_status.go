package invoicing

import (
	"context"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
	"github.com/cprservices/clinic-scheduler/internal/timezone"
)

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

func isValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// UpdateInvoiceStatus changes an invoice's status; the transition into
// paid creates the downstream therapist payment record in the same
// transaction.
type UpdateInvoiceStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateInvoiceStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateInvoiceStatus {
	return &UpdateInvoiceStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateInvoiceStatus) Execute(
	ctx context.Context,
	id uint,
	status string,
) (*models.Invoice, error) {

	if !isValidInvoiceStatus(status) {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	inv, err := uc.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	becamePaid := status == InvoiceStatusPaid && inv.Status != InvoiceStatusPaid
	inv.Status = status

	err = uc.repo.InTx(ctx, func(txCtx context.Context, tx domain.Repository) error {
		if err := tx.UpdateInvoice(txCtx, inv); err != nil {
			return err
		}
		if !becamePaid {
			return nil
		}
		return tx.CreateTherapistPayment(txCtx, &models.TherapistPayment{
			TherapistID: inv.TherapistID,
			InvoiceID:   inv.ID,
			Amount:      inv.TotalAmount,
			Status:      "pending",
			PaymentDate: timezone.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	action := "invoice_status_changed"
	if becamePaid {
		action = "invoice_paid"
	}
	uc.audit.Dispatch(ctx, audit.Event{
		Action:   action,
		Entity:   "invoice",
		EntityID: &inv.ID,
		Metadata: map[string]any{"status": status},
	})

	return inv, nil
}
