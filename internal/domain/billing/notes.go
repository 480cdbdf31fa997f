package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/cprservices/clinic-scheduler/internal/domain/scheduling"
	"github.com/cprservices/clinic-scheduler/internal/models"
)

const groupedNotesPrefix = "Facture groupée pour"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatSessionDate renders one session in the human-readable form used
// on invoices: "6 janvier 2025 à 9:00".
func FormatSessionDate(day time.Time, slotTime string) string {
	return fmt.Sprintf("%d %s %d à %s", day.Day(), frenchMonths[day.Month()-1], day.Year(), slotTime)
}

// GroupedNotes builds the consolidated summary for a grouped invoice.
// Appointments must already be in chronological order.
func GroupedNotes(appointments []models.Appointment) string {
	sessions := make([]string, 0, len(appointments))
	for _, ap := range appointments {
		day, err := scheduling.ParseWireDate(ap.Date)
		if err != nil {
			continue
		}
		sessions = append(sessions, FormatSessionDate(day, ap.Time))
	}
	return fmt.Sprintf("%s %d séances : %s", groupedNotesPrefix, len(appointments), strings.Join(sessions, ", "))
}

// MergeNotes rebuilds the invoice notes from the current group while
// keeping any user-authored lines. The generated summary always comes
// first; lines not produced by GroupedNotes are preserved verbatim.
func MergeNotes(existing, generated string) string {
	var kept []string
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, groupedNotesPrefix) {
			continue
		}
		kept = append(kept, trimmed)
	}
	if len(kept) == 0 {
		return generated
	}
	return generated + "\n" + strings.Join(kept, "\n")
}
