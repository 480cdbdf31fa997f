package scheduling

import (
	"errors"
	"fmt"
)

// ConflictInfo identifies the patient already holding a slot, so the
// caller can resolve the conflict (e.g. deep-link to the patient record).
type ConflictInfo struct {
	PatientID   uint   `json:"patientId"`
	PatientName string `json:"patientName"`
	Message     string `json:"message"`
}

// ConflictError is returned when a requested slot is already booked.
type ConflictError struct {
	TherapistID uint
	Date        string
	Time        string
	Info        ConflictInfo
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflict: therapist %d at %s %s already booked", e.TherapistID, e.Date, e.Time)
}

func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
