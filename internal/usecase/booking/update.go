package booking

import (
	"context"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
	"github.com/cprservices/clinic-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// Nil fields are left untouched.
type UpdateAppointmentInput struct {
	ID uint

	Status *string
	Notes  *string
	Date   *string
	Time   *string
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !domain.IsValidStatus(*in.Status) {
			return nil, httperr.ErrBusiness("invalid_status")
		}
		ap.Status = *in.Status
		if *in.Status == string(domain.StatusCancelled) {
			now := timezone.Now()
			ap.CancelledAt = &now
		}
	}
	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	date, timeStr := ap.Date, ap.Time
	if in.Date != nil {
		date = *in.Date
	}
	if in.Time != nil {
		timeStr = *in.Time
	}
	slotMoved := date != ap.Date || timeStr != ap.Time

	if !slotMoved {
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, err
		}
		uc.dispatch(ctx, ap)
		return ap, nil
	}

	slots, err := domain.SingleSlot{
		TherapistID: ap.TherapistID,
		Date:        date,
		Time:        timeStr,
	}.Expand()
	if err != nil {
		return nil, err
	}
	slot := slots[0]

	// Moving the slot re-runs conflict validation under a row lock,
	// ignoring the appointment being moved.
	err = uc.repo.InTx(ctx, func(txCtx context.Context, tx domain.Repository) error {
		existing, err := tx.FindConflict(txCtx, slot.TherapistID, slot.Date, slot.Time, ap.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.ConflictError{
				TherapistID: slot.TherapistID,
				Date:        slot.Date,
				Time:        slot.Time,
				Info:        conflictInfo(existing),
			}
		}

		ap.Date = slot.Date
		ap.Time = slot.Time
		return tx.UpdateAppointment(txCtx, ap)
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, slotTakenError(slot)
		}
		return nil, err
	}

	uc.dispatch(ctx, ap)
	return ap, nil
}

func (uc *UpdateAppointment) dispatch(ctx context.Context, ap *models.Appointment) {
	uc.audit.Dispatch(ctx, audit.Event{
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"status": ap.Status},
	})
}
