package booking

import (
	"context"
	"fmt"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

type AvailabilityResult struct {
	Available bool                 `json:"available"`
	Conflict  *domain.ConflictInfo `json:"conflictInfo,omitempty"`
}

type CheckAvailability struct {
	repo domain.Repository
}

func NewCheckAvailability(repo domain.Repository) *CheckAvailability {
	return &CheckAvailability{repo: repo}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	therapistID uint,
	date string,
	timeStr string,
) (*AvailabilityResult, error) {

	slot, err := domain.SingleSlot{
		TherapistID: therapistID,
		Date:        date,
		Time:        timeStr,
	}.Expand()
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindConflict(ctx, slot[0].TherapistID, slot[0].Date, slot[0].Time, 0)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &AvailabilityResult{Available: true}, nil
	}

	info := conflictInfo(existing)
	return &AvailabilityResult{Available: false, Conflict: &info}, nil
}

func conflictInfo(ap *models.Appointment) domain.ConflictInfo {
	return domain.ConflictInfo{
		PatientID:   ap.PatientID,
		PatientName: ap.Patient.FullName(),
		Message:     fmt.Sprintf("Créneau déjà réservé le %s à %s", ap.Date, ap.Time),
	}
}

// validateSlots checks every candidate against existing bookings before
// any mutation. The first occupied slot aborts the whole batch.
func validateSlots(ctx context.Context, repo domain.Repository, slots []domain.SlotRef) error {
	for _, slot := range slots {
		existing, err := repo.FindConflict(ctx, slot.TherapistID, slot.Date, slot.Time, 0)
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
	}
	return nil
}
