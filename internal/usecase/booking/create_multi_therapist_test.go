package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/usecase/invoicing"
)

func newMultiTherapistUsecase(f *fakeRepo) *CreateMultiTherapist {
	return NewCreateMultiTherapist(f, invoicing.NewConsolidator(0), audit.NewNop())
}

func TestCreateMultiTherapistSkipsUnscheduled(t *testing.T) {
	f := newFakeRepo()
	uc := newMultiTherapistUsecase(f)

	out, err := uc.Execute(context.Background(), CreateMultiTherapistInput{
		PatientID:    1,
		TherapistIDs: []uint{1, 2, 3},
		Schedules: map[uint]domain.DateTime{
			1: {Date: "06/01/2025", Time: "9:00"},
			2: {Date: "06/01/2025", Time: "10:00"},
		},
	})
	require.NoError(t, err)

	// Therapist 3 has no schedule and no default: skipped, reported,
	// and the other two bookings still go through.
	assert.Equal(t, 2, out.Created)
	assert.Equal(t, []uint{3}, out.Skipped)
	require.Len(t, out.Appointments, 2)
	assert.Equal(t, uint(1), out.Appointments[0].TherapistID)
	assert.Equal(t, uint(2), out.Appointments[1].TherapistID)

	// Independent therapists bill independently.
	assert.Len(t, f.invoices, 2)
	groups := make(map[string]struct{})
	for _, ap := range out.Appointments {
		groups[ap.InvoiceGroupID] = struct{}{}
	}
	assert.Len(t, groups, 2)
}

func TestCreateMultiTherapistDefaultSlot(t *testing.T) {
	f := newFakeRepo()
	uc := newMultiTherapistUsecase(f)

	out, err := uc.Execute(context.Background(), CreateMultiTherapistInput{
		PatientID:    1,
		TherapistIDs: []uint{1, 2},
		DefaultDate:  "07/01/2025",
		DefaultTime:  "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Created)
	assert.Empty(t, out.Skipped)
	for _, ap := range out.Appointments {
		assert.Equal(t, "07/01/2025", ap.Date)
		assert.Equal(t, "14:00", ap.Time)
	}
}

func TestCreateMultiTherapistNoneBookable(t *testing.T) {
	f := newFakeRepo()
	uc := newMultiTherapistUsecase(f)

	_, err := uc.Execute(context.Background(), CreateMultiTherapistInput{
		PatientID:    1,
		TherapistIDs: []uint{1, 2},
	})
	assert.True(t, httperr.IsBusiness(err, "no_bookable_therapist"))
	assert.Empty(t, f.appointments)
}

func TestCreateMultiTherapistConflictRollsBack(t *testing.T) {
	f := newFakeRepo()
	uc := newMultiTherapistUsecase(f)

	_, err := newCreateUsecase(f).Execute(context.Background(), CreateAppointmentInput{
		PatientID: 2, TherapistID: 2, Date: "06/01/2025", Time: "10:00",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), CreateMultiTherapistInput{
		PatientID:    1,
		TherapistIDs: []uint{1, 2},
		Schedules: map[uint]domain.DateTime{
			1: {Date: "06/01/2025", Time: "9:00"},
			2: {Date: "06/01/2025", Time: "10:00"},
		},
	})

	ce, ok := domain.AsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, uint(2), ce.TherapistID)
	assert.Len(t, f.appointments, 1)
	assert.Len(t, f.invoices, 1)
}
