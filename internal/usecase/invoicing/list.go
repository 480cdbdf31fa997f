package invoicing

import (
	"context"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

type ListInvoices struct {
	repo domain.Repository
}

func NewListInvoices(repo domain.Repository) *ListInvoices {
	return &ListInvoices{repo: repo}
}

func (uc *ListInvoices) Execute(ctx context.Context) ([]models.Invoice, error) {
	return uc.repo.ListInvoices(ctx)
}
