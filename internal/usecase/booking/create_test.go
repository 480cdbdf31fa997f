package booking

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/redislock"
	"github.com/cprservices/clinic-scheduler/internal/timezone"
	"github.com/cprservices/clinic-scheduler/internal/usecase/invoicing"
)

func newCreateUsecase(f *fakeRepo) *CreateAppointment {
	return NewCreateAppointment(f, redislock.NoopLocker{}, invoicing.NewConsolidator(0), audit.NewNop())
}

func TestCreateAppointment(t *testing.T) {
	f := newFakeRepo()
	uc := newCreateUsecase(f)

	out, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID:   1,
		TherapistID: 1,
		Date:        "06/01/2025",
		Time:        "09:00",
		Notes:       "première séance",
	})
	require.NoError(t, err)

	ap := out.Appointment
	assert.NotZero(t, ap.ID)
	assert.Equal(t, "06/01/2025", ap.Date)
	assert.Equal(t, "9:00", ap.Time, "time stored without leading zero")
	assert.Equal(t, "pending", ap.Status)
	assert.Equal(t, "première séance", ap.Notes)
	assert.NotEmpty(t, ap.InvoiceGroupID)

	require.NotNil(t, out.Invoice)
	assert.Equal(t, invoicing.DefaultUnitPrice, out.Invoice.TotalAmount)
	assert.Equal(t, ap.ID, out.Invoice.AppointmentID)
	assert.Equal(t, ap.InvoiceGroupID, out.Invoice.InvoiceGroupID)
	assert.Equal(t, fmt.Sprintf("F-%d-0001", timezone.Now().Year()), out.Invoice.InvoiceNumber)
}

func TestCreateAppointmentSkipInvoice(t *testing.T) {
	f := newFakeRepo()
	uc := newCreateUsecase(f)

	out, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID:             1,
		TherapistID:           1,
		Date:                  "06/01/2025",
		Time:                  "9:00",
		SkipInvoiceGeneration: true,
	})
	require.NoError(t, err)
	assert.Nil(t, out.Invoice)
	assert.Empty(t, f.invoices)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	f := newFakeRepo()
	uc := newCreateUsecase(f)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 1, TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 2, TherapistID: 1, Date: "06/01/2025", Time: "09:00",
	})

	ce, ok := domain.AsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, uint(1), ce.Info.PatientID)
	assert.Equal(t, "Claire Moreau", ce.Info.PatientName)
	assert.Contains(t, ce.Info.Message, "06/01/2025")

	// The loser wrote nothing.
	assert.Len(t, f.appointments, 1)
	assert.Len(t, f.invoices, 1)
}

func TestCreateAppointmentUniqueIndexBackstop(t *testing.T) {
	f := newFakeRepo()
	uc := newCreateUsecase(f)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 1, TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})
	require.NoError(t, err)

	// With the conflict scan blinded, the second create reaches the
	// insert and is stopped by the unique index instead.
	f.blindConflictScan = true
	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 2, TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})

	_, ok := domain.AsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Len(t, f.appointments, 1)
}

// heldLocker refuses every acquisition, like a slot whose lock is held
// by a concurrent booking.
type heldLocker struct{}

func (heldLocker) WithSlotLock(context.Context, uint, string, string, func(ctx context.Context) error) error {
	return redislock.ErrLockNotAcquired
}

func TestCreateAppointmentLockContention(t *testing.T) {
	f := newFakeRepo()
	uc := NewCreateAppointment(f, heldLocker{}, invoicing.NewConsolidator(0), audit.NewNop())

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 1, TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})

	// The loser of the lock race gets a conflict, never a plain error.
	ce, ok := domain.AsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, "06/01/2025", ce.Date)
	assert.Equal(t, "9:00", ce.Time)
	assert.Empty(t, f.appointments)
	assert.Empty(t, f.invoices)
}

func TestCreateAppointmentDifferentTherapistsShareSlot(t *testing.T) {
	f := newFakeRepo()
	uc := newCreateUsecase(f)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 1, TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 2, TherapistID: 2, Date: "06/01/2025", Time: "9:00",
	})
	assert.NoError(t, err)
}

func TestCreateAppointmentUnknownPatient(t *testing.T) {
	f := newFakeRepo()
	uc := newCreateUsecase(f)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		PatientID: 99, TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})
	assert.True(t, httperr.IsBusiness(err, "patient_not_found"))

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		TherapistID: 1, Date: "06/01/2025", Time: "9:00",
	})
	assert.True(t, httperr.IsBusiness(err, "missing_patient"))
}
