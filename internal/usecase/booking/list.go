package booking

import (
	"context"
	"log"
	"time"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/models"
	"github.com/cprservices/clinic-scheduler/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
	now  func() time.Time
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{
		repo: repo,
		now:  timezone.Now,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	f domain.AppointmentFilter,
) ([]models.Appointment, error) {

	aps, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	return uc.sweepElapsed(ctx, aps), nil
}

// sweepElapsed transitions past-dated pending appointments to completed
// at read time, server-side. Sweep failures keep the stale status and
// are retried on the next read.
func (uc *ListAppointments) sweepElapsed(ctx context.Context, aps []models.Appointment) []models.Appointment {
	now := uc.now()

	for i := range aps {
		if aps[i].Status != string(domain.StatusPending) {
			continue
		}
		at, err := domain.Combine(aps[i].Date, aps[i].Time)
		if err != nil || !at.Before(now) {
			continue
		}

		aps[i].Status = string(domain.StatusCompleted)
		if err := uc.repo.UpdateAppointment(ctx, &aps[i]); err != nil {
			log.Printf("failed to complete elapsed appointment %d: %v", aps[i].ID, err)
			aps[i].Status = string(domain.StatusPending)
		}
	}
	return aps
}
