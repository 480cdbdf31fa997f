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

type CreateRecurringInput struct {
	PatientID   uint
	TherapistID uint

	Date      string
	Time      string
	Frequency string
	Count     int
	Notes     string

	// GroupedInvoice bills the whole series as one invoice; otherwise
	// each occurrence gets its own.
	GroupedInvoice        bool
	SkipInvoiceGeneration bool
}

type CreateRecurringOutput struct {
	Appointments []models.Appointment `json:"appointments"`
	Invoice      *models.Invoice      `json:"invoice,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateRecurring struct {
	repo   domain.Repository
	biller Biller
	audit  *audit.Dispatcher
}

func NewCreateRecurring(
	repo domain.Repository,
	biller Biller,
	audit *audit.Dispatcher,
) *CreateRecurring {
	return &CreateRecurring{
		repo:   repo,
		biller: biller,
		audit:  audit,
	}
}

func (uc *CreateRecurring) Execute(
	ctx context.Context,
	in CreateRecurringInput,
) (*CreateRecurringOutput, error) {

	if in.PatientID == 0 {
		return nil, httperr.ErrBusiness("missing_patient")
	}
	if _, err := uc.repo.GetPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetTherapistByID(ctx, in.TherapistID); err != nil {
		return nil, err
	}

	freq, err := domain.ParseFrequency(in.Frequency)
	if err != nil {
		return nil, err
	}

	slots, err := domain.Recurring{
		TherapistID: in.TherapistID,
		Date:        in.Date,
		Time:        in.Time,
		Frequency:   freq,
		Count:       in.Count,
	}.Expand()
	if err != nil {
		return nil, err
	}

	// All-or-nothing: any occupied occurrence rejects the whole series
	// before anything is written.
	if err := validateSlots(ctx, uc.repo, slots); err != nil {
		return nil, err
	}

	var out CreateRecurringOutput

	err = uc.repo.InTx(ctx, func(txCtx context.Context, tx domain.Repository) error {
		// Re-check under row locks; another request may have won a slot
		// between validation and this transaction.
		if err := validateSlots(txCtx, tx, slots); err != nil {
			return err
		}

		groupID := uuid.NewString()

		parent := models.Appointment{
			PatientID:          in.PatientID,
			TherapistID:        in.TherapistID,
			Date:               slots[0].Date,
			Time:               slots[0].Time,
			Status:             string(domain.InitialStatus()),
			Notes:              in.Notes,
			IsRecurring:        true,
			RecurringFrequency: string(freq),
			RecurringCount:     len(slots),
		}
		if in.GroupedInvoice {
			parent.InvoiceGroupID = groupID
		} else {
			parent.InvoiceGroupID = uuid.NewString()
		}

		if err := tx.CreateAppointment(txCtx, &parent); err != nil {
			return err
		}
		out.Appointments = append(out.Appointments, parent)

		for _, slot := range slots[1:] {
			parentID := parent.ID
			child := models.Appointment{
				PatientID:           in.PatientID,
				TherapistID:         in.TherapistID,
				Date:                slot.Date,
				Time:                slot.Time,
				Status:              string(domain.InitialStatus()),
				IsRecurring:         true,
				RecurringFrequency:  string(freq),
				RecurringCount:      len(slots),
				ParentAppointmentID: &parentID,
			}
			if in.GroupedInvoice {
				child.InvoiceGroupID = groupID
			} else {
				child.InvoiceGroupID = uuid.NewString()
			}

			if err := tx.CreateAppointment(txCtx, &child); err != nil {
				return err
			}
			out.Appointments = append(out.Appointments, child)
		}

		if in.SkipInvoiceGeneration {
			return nil
		}

		if in.GroupedInvoice {
			inv, err := uc.biller.Consolidate(txCtx, tx, out.Appointments)
			if err != nil {
				return err
			}
			out.Invoice = inv
			return nil
		}

		for _, ap := range out.Appointments {
			if _, err := uc.biller.Consolidate(txCtx, tx, []models.Appointment{ap}); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, slotTakenError(slots[0])
		}
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		Action:   "recurring_series_created",
		Entity:   "appointment",
		EntityID: &out.Appointments[0].ID,
		Metadata: map[string]any{
			"frequency": string(freq),
			"count":     len(out.Appointments),
		},
	})

	return &out, nil
}
