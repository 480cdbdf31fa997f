package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cprservices/clinic-scheduler/internal/config"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Therapist{},
		&models.Appointment{},
		&models.Invoice{},
		&models.TherapistPayment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// One non-cancelled appointment per (therapist, date, time). The
	// partial predicate lets a cancelled slot be rebooked.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_slot
        ON appointments (therapist_id, date, time)
        WHERE status <> 'cancelled'
    `)

	// Atomic counter behind invoice numbering (F-YYYY-NNNN).
	db.Exec(`CREATE SEQUENCE IF NOT EXISTS invoice_number_seq`)

	return db
}
