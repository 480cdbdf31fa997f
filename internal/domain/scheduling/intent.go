package scheduling

import (
	"github.com/cprservices/clinic-scheduler/internal/httperr"
)

// ===============================
// Booking intents
// ===============================

// SlotRef is one concrete (therapist, date, time) tuple to book.
type SlotRef struct {
	TherapistID uint
	Date        string
	Time        string
}

// DateTime is one requested (date, time) pair.
type DateTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func normalizeSlot(therapistID uint, date, timeStr string) (SlotRef, error) {
	if therapistID == 0 {
		return SlotRef{}, httperr.ErrBusiness("missing_therapist")
	}
	day, err := ParseWireDate(date)
	if err != nil {
		return SlotRef{}, err
	}
	if !IsCatalogueTime(timeStr) {
		return SlotRef{}, httperr.ErrBusiness("invalid_time")
	}
	normalized, _ := NormalizeSlotTime(timeStr)
	return SlotRef{
		TherapistID: therapistID,
		Date:        FormatWireDate(day),
		Time:        normalized,
	}, nil
}

// assertDistinct rejects a batch that requests the same slot twice;
// the second occurrence would collide with the first at write time.
func assertDistinct(slots []SlotRef) error {
	seen := make(map[SlotRef]struct{}, len(slots))
	for _, s := range slots {
		if _, dup := seen[s]; dup {
			return &ConflictError{
				TherapistID: s.TherapistID,
				Date:        s.Date,
				Time:        s.Time,
				Info: ConflictInfo{
					Message: "slot requested more than once in the same batch",
				},
			}
		}
		seen[s] = struct{}{}
	}
	return nil
}

// ---------- Single slot ----------

type SingleSlot struct {
	TherapistID uint
	Date        string
	Time        string
}

func (in SingleSlot) Expand() ([]SlotRef, error) {
	slot, err := normalizeSlot(in.TherapistID, in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	return []SlotRef{slot}, nil
}

// ---------- Multiple explicit slots, one therapist ----------

type MultiSlot struct {
	TherapistID uint
	Slots       []DateTime
}

func (in MultiSlot) Expand() ([]SlotRef, error) {
	if len(in.Slots) == 0 {
		return nil, httperr.ErrBusiness("missing_slots")
	}
	out := make([]SlotRef, 0, len(in.Slots))
	for _, s := range in.Slots {
		slot, err := normalizeSlot(in.TherapistID, s.Date, s.Time)
		if err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	if err := assertDistinct(out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- Multiple therapists, one slot each ----------

type MultiTherapist struct {
	TherapistIDs []uint
	Schedules    map[uint]DateTime

	// Shared fallback when a therapist has no schedule entry.
	DefaultDate string
	DefaultTime string
}

// Expand returns the slots to book plus the therapists skipped because
// neither a schedule entry nor a default date/time exists for them.
// Skipping is deliberate: an unscheduled therapist must not fail the batch.
func (in MultiTherapist) Expand() ([]SlotRef, []uint, error) {
	if len(in.TherapistIDs) == 0 {
		return nil, nil, httperr.ErrBusiness("missing_therapists")
	}

	var (
		out     []SlotRef
		skipped []uint
	)
	for _, id := range in.TherapistIDs {
		date, timeStr := in.DefaultDate, in.DefaultTime
		if dt, ok := in.Schedules[id]; ok && dt.Date != "" && dt.Time != "" {
			date, timeStr = dt.Date, dt.Time
		}
		if date == "" || timeStr == "" {
			skipped = append(skipped, id)
			continue
		}
		slot, err := normalizeSlot(id, date, timeStr)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, slot)
	}
	if err := assertDistinct(out); err != nil {
		return nil, nil, err
	}
	return out, skipped, nil
}

// ---------- Recurring series ----------

type Recurring struct {
	TherapistID uint
	Date        string
	Time        string
	Frequency   Frequency
	Count       int
}

func (in Recurring) Expand() ([]SlotRef, error) {
	base, err := normalizeSlot(in.TherapistID, in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	baseDay, _ := ParseWireDate(base.Date)

	dates := Occurrences(baseDay, in.Frequency, in.Count)
	out := make([]SlotRef, 0, len(dates))
	for _, d := range dates {
		out = append(out, SlotRef{
			TherapistID: in.TherapistID,
			Date:        FormatWireDate(d),
			Time:        base.Time,
		})
	}
	if err := assertDistinct(out); err != nil {
		return nil, err
	}
	return out, nil
}
