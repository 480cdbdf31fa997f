package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
	"github.com/cprservices/clinic-scheduler/internal/redislock"
)

// Biller consolidates a freshly created appointment group into one
// invoice, inside the same storage transaction as the appointments.
type Biller interface {
	Consolidate(ctx context.Context, repo domain.Repository, appointments []models.Appointment) (*models.Invoice, error)
}

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PatientID   uint
	TherapistID uint

	Date  string
	Time  string
	Notes string

	SkipInvoiceGeneration bool
}

type CreateAppointmentOutput struct {
	Appointment models.Appointment `json:"appointment"`
	Invoice     *models.Invoice    `json:"invoice,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	locker redislock.Locker
	biller Biller
	audit  *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	locker redislock.Locker,
	biller Biller,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		locker: locker,
		biller: biller,
		audit:  audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*CreateAppointmentOutput, error) {

	if in.PatientID == 0 {
		return nil, httperr.ErrBusiness("missing_patient")
	}
	if _, err := uc.repo.GetPatientByID(ctx, in.PatientID); err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetTherapistByID(ctx, in.TherapistID); err != nil {
		return nil, err
	}

	slots, err := domain.SingleSlot{
		TherapistID: in.TherapistID,
		Date:        in.Date,
		Time:        in.Time,
	}.Expand()
	if err != nil {
		return nil, err
	}
	slot := slots[0]

	var out CreateAppointmentOutput

	// The per-slot lock serializes check-then-write; the partial unique
	// index on the slot is the backstop if the lock ever expires early.
	err = uc.locker.WithSlotLock(ctx, slot.TherapistID, slot.Date, slot.Time, func(lockCtx context.Context) error {
		return uc.repo.InTx(lockCtx, func(txCtx context.Context, tx domain.Repository) error {
			if err := validateSlots(txCtx, tx, slots); err != nil {
				return err
			}

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
			out.Appointment = ap

			if !in.SkipInvoiceGeneration {
				inv, err := uc.biller.Consolidate(txCtx, tx, []models.Appointment{ap})
				if err != nil {
					return err
				}
				out.Invoice = inv
			}
			return nil
		})
	})

	if err != nil {
		// Losing the slot lock means another booking of the same slot is
		// in flight; to the caller that is a conflict, not a failure.
		if errors.Is(err, redislock.ErrLockNotAcquired) || httperr.IsUniqueViolation(err) {
			return nil, slotTakenError(slot)
		}
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &out.Appointment.ID,
	})

	return &out, nil
}

// slotTakenError covers the unique-index race where the conflicting row
// was written after validation; the loser only learns the slot is gone.
func slotTakenError(slot domain.SlotRef) error {
	return &domain.ConflictError{
		TherapistID: slot.TherapistID,
		Date:        slot.Date,
		Time:        slot.Time,
		Info: domain.ConflictInfo{
			Message: "Créneau réservé par une demande concurrente",
		},
	}
}
