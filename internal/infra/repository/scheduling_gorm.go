package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Patient / Therapist
// --------------------------------------------------

func (r *SchedulingGormRepository) GetPatientByID(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("patient_not_found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *SchedulingGormRepository) GetTherapistByID(
	ctx context.Context,
	id uint,
) (*models.Therapist, error) {

	var t models.Therapist
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("therapist_not_found")
		}
		return nil, err
	}
	return &t, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *SchedulingGormRepository) FindConflict(
	ctx context.Context,
	therapistID uint,
	date string,
	timeStr string,
	excludeID uint,
) (*models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"therapist_id = ? AND date = ? AND time = ? AND status <> ?",
			therapistID, date, timeStr, string(domain.StatusCancelled),
		)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ap models.Appointment
	if err := q.First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Patient preloaded separately; FOR UPDATE must not lock the join.
	if err := r.db.WithContext(ctx).First(&ap.Patient, ap.PatientID).Error; err != nil &&
		!errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &ap, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *SchedulingGormRepository) GetAppointmentByID(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Therapist").
		First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("appointment_not_found")
		}
		return nil, err
	}
	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *SchedulingGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("appointment_not_found")
	}
	return nil
}

func (r *SchedulingGormRepository) ListAppointments(
	ctx context.Context,
	f domain.AppointmentFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Therapist")

	if f.TherapistID > 0 {
		q = q.Where("therapist_id = ?", f.TherapistID)
	}
	if f.PatientID > 0 {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.Date != "" {
		q = q.Where("date = ?", f.Date)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var aps []models.Appointment
	if err := q.Order("id ASC").Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *SchedulingGormRepository) ListAppointmentsByGroup(
	ctx context.Context,
	groupID string,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("invoice_group_id = ?", groupID).
		Order("id ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *SchedulingGormRepository) ListAppointmentsByParent(
	ctx context.Context,
	parentID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? OR parent_appointment_id = ?", parentID, parentID).
		Order("id ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

// --------------------------------------------------
// Invoice
// --------------------------------------------------

func (r *SchedulingGormRepository) NextInvoiceSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.WithContext(ctx).
		Raw("SELECT nextval('invoice_number_seq')").
		Scan(&seq).Error; err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *SchedulingGormRepository) CreateInvoice(
	ctx context.Context,
	inv *models.Invoice,
) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *SchedulingGormRepository) GetInvoiceByID(
	ctx context.Context,
	id uint,
) (*models.Invoice, error) {

	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Therapist").
		First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("invoice_not_found")
		}
		return nil, err
	}
	return &inv, nil
}

func (r *SchedulingGormRepository) UpdateInvoice(
	ctx context.Context,
	inv *models.Invoice,
) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *SchedulingGormRepository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invs []models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Therapist").
		Order("id DESC").
		Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *SchedulingGormRepository) CreateTherapistPayment(
	ctx context.Context,
	p *models.TherapistPayment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *SchedulingGormRepository) InTx(
	ctx context.Context,
	fn func(ctx context.Context, tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(txDB *gorm.DB) error {
		return fn(ctx, &SchedulingGormRepository{db: txDB})
	})
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
