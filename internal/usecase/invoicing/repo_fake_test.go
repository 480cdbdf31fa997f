package invoicing

import (
	"context"
	"sort"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

// fakeRepo implements the slice of the repository the invoicing
// usecases touch; the embedded interface panics on anything else.
type fakeRepo struct {
	domain.Repository

	appointments map[uint]*models.Appointment
	invoices     map[uint]*models.Invoice
	payments     []models.TherapistPayment

	nextInvoiceID uint
	seq           int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		appointments: make(map[uint]*models.Appointment),
		invoices:     make(map[uint]*models.Invoice),
	}
}

func (f *fakeRepo) seed(aps ...models.Appointment) {
	for i := range aps {
		cp := aps[i]
		f.appointments[cp.ID] = &cp
	}
}

func (f *fakeRepo) NextInvoiceSequence(_ context.Context) (int64, error) {
	f.seq++
	return f.seq, nil
}

func (f *fakeRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	f.nextInvoiceID++
	inv.ID = f.nextInvoiceID
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) GetInvoiceByID(_ context.Context, id uint) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) UpdateInvoice(_ context.Context, inv *models.Invoice) error {
	if _, ok := f.invoices[inv.ID]; !ok {
		return httperr.ErrBusiness("invoice_not_found")
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) ListAppointmentsByGroup(_ context.Context, groupID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, id := range f.sortedAppointmentIDs() {
		if ap := f.appointments[id]; ap.InvoiceGroupID == groupID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsByParent(_ context.Context, parentID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, id := range f.sortedAppointmentIDs() {
		ap := f.appointments[id]
		if ap.ID == parentID || (ap.ParentAppointmentID != nil && *ap.ParentAppointmentID == parentID) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateTherapistPayment(_ context.Context, p *models.TherapistPayment) error {
	p.ID = uint(len(f.payments) + 1)
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepo) sortedAppointmentIDs() []uint {
	ids := make([]uint, 0, len(f.appointments))
	for id := range f.appointments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
