package booking

import (
	"context"

	"github.com/cprservices/clinic-scheduler/internal/audit"
	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, id uint) error {
	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &id,
	})
	return nil
}

// ======================================================
// BULK DELETE
// ======================================================

type BulkDeleteFailure struct {
	ID    uint   `json:"id"`
	Error string `json:"error"`
}

type BulkDeleteResult struct {
	Deleted  []uint              `json:"results"`
	Failures []BulkDeleteFailure `json:"failures,omitempty"`
}

// ExecuteMany processes each id independently: failures are collected
// and reported, never retried, and never abort the remaining ids. This
// partial-success contract is the opposite of batch creation.
func (uc *DeleteAppointment) ExecuteMany(ctx context.Context, ids []uint) *BulkDeleteResult {
	res := &BulkDeleteResult{}

	for _, id := range ids {
		if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
			res.Failures = append(res.Failures, BulkDeleteFailure{
				ID:    id,
				Error: err.Error(),
			})
			continue
		}
		res.Deleted = append(res.Deleted, id)
	}

	if len(res.Deleted) > 0 {
		first := res.Deleted[0]
		uc.audit.Dispatch(ctx, audit.Event{
			Action:   "appointments_bulk_deleted",
			Entity:   "appointment",
			EntityID: &first,
			Metadata: map[string]any{
				"deleted": len(res.Deleted),
				"failed":  len(res.Failures),
			},
		})
	}
	return res
}
