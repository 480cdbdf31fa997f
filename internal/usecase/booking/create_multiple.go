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

type CreateMultipleInput struct {
	PatientID   uint
	TherapistID uint
	Slots       []domain.DateTime
	Notes       string

	SkipInvoiceGeneration bool
}

type CreateMultipleOutput struct {
	Appointments []models.Appointment `json:"appointments"`
	Invoice      *models.Invoice      `json:"invoice,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateMultiple struct {
	repo   domain.Repository
	biller Biller
	audit  *audit.Dispatcher
}

func NewCreateMultiple(
	repo domain.Repository,
	biller Biller,
	audit *audit.Dispatcher,
) *CreateMultiple {
	return &CreateMultiple{
		repo:   repo,
		biller: biller,
		audit:  audit,
	}
}

func (uc *CreateMultiple) Execute(
	ctx context.Context,
	in CreateMultipleInput,
) (*CreateMultipleOutput, error) {

	if in.PatientID == 0 {
		return nil, httperr.ErrBusiness("missing_patient")
	}
	if _, err := uc.repo.GetPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetTherapistByID(ctx, in.TherapistID); err != nil {
		return nil, err
	}

	slots, err := domain.MultiSlot{
		TherapistID: in.TherapistID,
		Slots:       in.Slots,
	}.Expand()
	if err != nil {
		return nil, err
	}

	if err := validateSlots(ctx, uc.repo, slots); err != nil {
		return nil, err
	}

	var out CreateMultipleOutput

	err = uc.repo.InTx(ctx, func(txCtx context.Context, tx domain.Repository) error {
		if err := validateSlots(txCtx, tx, slots); err != nil {
			return err
		}

		groupID := uuid.NewString()

		for i, slot := range slots {
			ap := models.Appointment{
				PatientID:      in.PatientID,
				TherapistID:    slot.TherapistID,
				Date:           slot.Date,
				Time:           slot.Time,
				Status:         string(domain.InitialStatus()),
				InvoiceGroupID: groupID,
			}
			if i == 0 {
				ap.Notes = in.Notes
			}
			if i > 0 {
				parentID := out.Appointments[0].ID
				ap.ParentAppointmentID = &parentID
			}

			if err := tx.CreateAppointment(txCtx, &ap); err != nil {
				return err
			}
			out.Appointments = append(out.Appointments, ap)
		}

		if in.SkipInvoiceGeneration {
			return nil
		}

		inv, err := uc.biller.Consolidate(txCtx, tx, out.Appointments)
		if err != nil {
			return err
		}
		out.Invoice = inv
		return nil
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, slotTakenError(slots[0])
		}
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		Action:   "multi_slot_created",
		Entity:   "appointment",
		EntityID: &out.Appointments[0].ID,
		Metadata: map[string]any{"count": len(out.Appointments)},
	})

	return &out, nil
}
