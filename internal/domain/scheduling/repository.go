package scheduling

import (
	"context"

	"github.com/cprservices/clinic-scheduler/internal/models"
)

// AppointmentFilter narrows appointment listings. Zero values mean "any".
type AppointmentFilter struct {
	TherapistID uint
	PatientID   uint
	Date        string
	Status      string
}

type Repository interface {
	// -------- Patient / Therapist --------
	GetPatientByID(
		ctx context.Context,
		id uint,
	) (*models.Patient, error)

	GetTherapistByID(
		ctx context.Context,
		id uint,
	) (*models.Therapist, error)

	// -------- Availability --------

	// FindConflict returns the non-cancelled appointment occupying the
	// exact (therapist, date, time) slot, with the patient preloaded,
	// or nil when the slot is free. excludeID ignores one appointment
	// (slot moves). Must take a row lock when called inside InTx.
	FindConflict(
		ctx context.Context,
		therapistID uint,
		date string,
		timeStr string,
		excludeID uint,
	) (*models.Appointment, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointmentByID(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	ListAppointments(
		ctx context.Context,
		f AppointmentFilter,
	) ([]models.Appointment, error)

	ListAppointmentsByGroup(
		ctx context.Context,
		groupID string,
	) ([]models.Appointment, error)

	ListAppointmentsByParent(
		ctx context.Context,
		parentID uint,
	) ([]models.Appointment, error)

	// -------- Invoice --------

	// NextInvoiceSequence draws from an atomic storage-side sequence.
	NextInvoiceSequence(ctx context.Context) (int64, error)

	CreateInvoice(
		ctx context.Context,
		inv *models.Invoice,
	) error

	GetInvoiceByID(
		ctx context.Context,
		id uint,
	) (*models.Invoice, error)

	UpdateInvoice(
		ctx context.Context,
		inv *models.Invoice,
	) error

	ListInvoices(ctx context.Context) ([]models.Invoice, error)

	CreateTherapistPayment(
		ctx context.Context,
		p *models.TherapistPayment,
	) error

	// -------- Transactions --------

	// InTx runs fn against a repository bound to one storage
	// transaction; any error rolls back everything fn wrote.
	InTx(
		ctx context.Context,
		fn func(ctx context.Context, tx Repository) error,
	) error
}
