package booking

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

// fakeRepo is an in-memory Repository. It enforces the same active-slot
// uniqueness as the partial index in postgres, so the unique-violation
// fallback path is testable, and its InTx snapshots state so a failing
// transaction rolls everything back like the real one.
type fakeRepo struct {
	mu sync.Mutex

	patients   map[uint]models.Patient
	therapists map[uint]models.Therapist

	appointments map[uint]*models.Appointment
	invoices     map[uint]*models.Invoice
	payments     []models.TherapistPayment

	nextAppointmentID uint
	nextInvoiceID     uint
	seq               int64

	// blindConflictScan makes FindConflict always report a free slot,
	// simulating a writer that committed between the availability check
	// and the insert; only the unique index catches it then.
	blindConflictScan bool
}

func newFakeRepo() *fakeRepo {
	f := &fakeRepo{
		patients:     make(map[uint]models.Patient),
		therapists:   make(map[uint]models.Therapist),
		appointments: make(map[uint]*models.Appointment),
		invoices:     make(map[uint]*models.Invoice),
	}
	f.patients[1] = models.Patient{ID: 1, FirstName: "Claire", LastName: "Moreau"}
	f.patients[2] = models.Patient{ID: 2, FirstName: "Lucas", LastName: "Bernard"}
	f.therapists[1] = models.Therapist{ID: 1, FirstName: "Anne", LastName: "Petit", Specialty: "kinésithérapie"}
	f.therapists[2] = models.Therapist{ID: 2, FirstName: "Marc", LastName: "Roux", Specialty: "ostéopathie"}
	f.therapists[3] = models.Therapist{ID: 3, FirstName: "Sophie", LastName: "Garnier", Specialty: "orthophonie"}
	return f
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------
// Patient / Therapist
// --------------------------------------------------

func (f *fakeRepo) GetPatientByID(_ context.Context, id uint) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.patients[id]
	if !ok {
		return nil, httperr.ErrBusiness("patient_not_found")
	}
	return &p, nil
}

func (f *fakeRepo) GetTherapistByID(_ context.Context, id uint) (*models.Therapist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	th, ok := f.therapists[id]
	if !ok {
		return nil, httperr.ErrBusiness("therapist_not_found")
	}
	return &th, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (f *fakeRepo) FindConflict(_ context.Context, therapistID uint, date, timeStr string, excludeID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.blindConflictScan {
		return nil, nil
	}
	ap := f.findActiveSlot(therapistID, date, timeStr, excludeID)
	if ap == nil {
		return nil, nil
	}

	cp := *ap
	cp.Patient = f.patients[cp.PatientID]
	return &cp, nil
}

// findActiveSlot scans by ascending id; callers hold f.mu.
func (f *fakeRepo) findActiveSlot(therapistID uint, date, timeStr string, excludeID uint) *models.Appointment {
	for _, id := range f.sortedAppointmentIDs() {
		ap := f.appointments[id]
		if ap.TherapistID != therapistID || ap.Date != date || ap.Time != timeStr {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) || ap.ID == excludeID {
			continue
		}
		return ap
	}
	return nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Mirrors the partial unique index on (therapist_id, date, time)
	// excluding cancelled rows.
	if existing := f.findActiveSlot(ap.TherapistID, ap.Date, ap.Time, 0); existing != nil {
		return &pgconn.PgError{
			Code:    "23505",
			Message: `duplicate key value violates unique constraint "uniq_active_slot"`,
		}
	}

	f.nextAppointmentID++
	ap.ID = f.nextAppointmentID
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) GetAppointmentByID(_ context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ap, ok := f.appointments[id]
	if !ok {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	cp := *ap
	cp.Patient = f.patients[cp.PatientID]
	cp.Therapist = f.therapists[cp.TherapistID]
	return &cp, nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.appointments[ap.ID]; !ok {
		return httperr.ErrBusiness("appointment_not_found")
	}
	cp := *ap
	f.appointments[ap.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.appointments[id]; !ok {
		return httperr.ErrBusiness("appointment_not_found")
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) ListAppointments(_ context.Context, filter domain.AppointmentFilter) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, id := range f.sortedAppointmentIDs() {
		ap := f.appointments[id]
		if filter.TherapistID > 0 && ap.TherapistID != filter.TherapistID {
			continue
		}
		if filter.PatientID > 0 && ap.PatientID != filter.PatientID {
			continue
		}
		if filter.Date != "" && ap.Date != filter.Date {
			continue
		}
		if filter.Status != "" && ap.Status != filter.Status {
			continue
		}
		cp := *ap
		cp.Patient = f.patients[cp.PatientID]
		cp.Therapist = f.therapists[cp.TherapistID]
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsByGroup(_ context.Context, groupID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, id := range f.sortedAppointmentIDs() {
		if ap := f.appointments[id]; ap.InvoiceGroupID == groupID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsByParent(_ context.Context, parentID uint) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, id := range f.sortedAppointmentIDs() {
		ap := f.appointments[id]
		if ap.ID == parentID || (ap.ParentAppointmentID != nil && *ap.ParentAppointmentID == parentID) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) sortedAppointmentIDs() []uint {
	ids := make([]uint, 0, len(f.appointments))
	for id := range f.appointments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// --------------------------------------------------
// Invoice
// --------------------------------------------------

func (f *fakeRepo) NextInvoiceSequence(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	return f.seq, nil
}

func (f *fakeRepo) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextInvoiceID++
	inv.ID = f.nextInvoiceID
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) GetInvoiceByID(_ context.Context, id uint) (*models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	inv, ok := f.invoices[id]
	if !ok {
		return nil, httperr.ErrBusiness("invoice_not_found")
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeRepo) UpdateInvoice(_ context.Context, inv *models.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.invoices[inv.ID]; !ok {
		return httperr.ErrBusiness("invoice_not_found")
	}
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeRepo) ListInvoices(_ context.Context) ([]models.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ids := make([]uint, 0, len(f.invoices))
	for id := range f.invoices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]models.Invoice, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.invoices[id])
	}
	return out, nil
}

func (f *fakeRepo) CreateTherapistPayment(_ context.Context, p *models.TherapistPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = uint(len(f.payments) + 1)
	f.payments = append(f.payments, *p)
	return nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (f *fakeRepo) InTx(ctx context.Context, fn func(ctx context.Context, tx domain.Repository) error) error {
	f.mu.Lock()
	snapAps := make(map[uint]*models.Appointment, len(f.appointments))
	for id, ap := range f.appointments {
		cp := *ap
		snapAps[id] = &cp
	}
	snapInvs := make(map[uint]*models.Invoice, len(f.invoices))
	for id, inv := range f.invoices {
		cp := *inv
		snapInvs[id] = &cp
	}
	snapPays := append([]models.TherapistPayment(nil), f.payments...)
	snapNextAp, snapNextInv, snapSeq := f.nextAppointmentID, f.nextInvoiceID, f.seq
	f.mu.Unlock()

	if err := fn(ctx, f); err != nil {
		f.mu.Lock()
		f.appointments = snapAps
		f.invoices = snapInvs
		f.payments = snapPays
		f.nextAppointmentID, f.nextInvoiceID, f.seq = snapNextAp, snapNextInv, snapSeq
		f.mu.Unlock()
		return err
	}
	return nil
}
