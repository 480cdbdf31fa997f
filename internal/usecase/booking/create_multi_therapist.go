package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateMultiTherapistInput struct {
	PatientID    uint
	TherapistIDs []uint

	// Per-therapist schedule; therapists missing here fall back to the
	// shared default, or are skipped when no default is set either.
	Schedules   map[uint]domain.DateTime
	DefaultDate string
	DefaultTime string
	Notes       string

	SkipInvoiceGeneration bool
}

type CreateMultiTherapistOutput struct {
	Appointments []models.Appointment `json:"appointments"`
	Created      int                  `json:"created"`
	Skipped      []uint               `json:"skippedTherapistIds,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateMultiTherapist struct {
	repo   domain.Repository
	biller Biller
	audit  *audit.Dispatcher
}

func NewCreateMultiTherapist(
	repo domain.Repository,
	biller Biller,
	audit *audit.Dispatcher,
) *CreateMultiTherapist {
	return &CreateMultiTherapist{
		repo:   repo,
		biller: biller,
		audit:  audit,
	}
}

func (uc *CreateMultiTherapist) Execute(
	ctx context.Context,
	in CreateMultiTherapistInput,
) (*CreateMultiTherapistOutput, error) {

	if in.PatientID == 0 {
		return nil, httperr.ErrBusiness("missing_patient")
	}
	if _, err := uc.repo.GetPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}
	for _, id := range in.TherapistIDs {
		if _, err := uc.repo.GetTherapistByID(ctx, id); err != nil {
			return nil, err
		}
	}

	slots, skipped, err := domain.MultiTherapist{
		TherapistIDs: in.TherapistIDs,
		Schedules:    in.Schedules,
		DefaultDate:  in.DefaultDate,
		DefaultTime:  in.DefaultTime,
	}.Expand()
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, httperr.ErrBusiness("no_bookable_therapist")
	}

	if err := validateSlots(ctx, uc.repo, slots); err != nil {
		return nil, err
	}

	out := CreateMultiTherapistOutput{Skipped: skipped}

	err = uc.repo.InTx(ctx, func(txCtx context.Context, tx domain.Repository) error {
		if err := validateSlots(txCtx, tx, slots); err != nil {
			return err
		}

		for _, slot := range slots {
			ap := models.Appointment{
				PatientID:      in.PatientID,
				TherapistID:    slot.TherapistID,
				Date:           slot.Date,
				Time:           slot.Time,
				Status:         string(domain.InitialStatus()),
				Notes:          in.Notes,
				InvoiceGroupID: uuid.NewString(),
			}

			if err := tx.CreateAppointment(txCtx, &ap); err != nil {
				return err
			}

			// Independent therapists bill independently.
			if !in.SkipInvoiceGeneration {
				if _, err := uc.biller.Consolidate(txCtx, tx, []models.Appointment{ap}); err != nil {
					return err
				}
			}
			out.Appointments = append(out.Appointments, ap)
		}
		return nil
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, slotTakenError(slots[0])
		}
		return nil, err
	}

	out.Created = len(out.Appointments)

	uc.audit.Dispatch(ctx, audit.Event{
		Action:   "multi_therapist_created",
		Entity:   "appointment",
		EntityID: &out.Appointments[0].ID,
		Metadata: map[string]any{
			"created": out.Created,
			"skipped": len(skipped),
		},
	})

	return &out, nil
}
