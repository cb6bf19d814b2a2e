package usecase

import (
	"errors"
	"fmt"
	"time"

	"clinic-scheduling-api/internal/domain/entity"
)

// ErrDoctorUnavailable is returned when the doctor has no active
// availability rule for the requested day.
var ErrDoctorUnavailable = errors.New("Doctor is not available on this day.")

// OutsideWindowError reports a requested time that falls outside the
// doctor's working window. The message is client-facing.
type OutsideWindowError struct {
	Message string
}

func (e *OutsideWindowError) Error() string {
	return e.Message
}

const clockLayout = "15:04"

// parseClock converts an "HH:MM" string to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatClock converts minutes since midnight back to "HH:MM".
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// resolveSlot is the pure booking-time computation: given the doctor's
// availability rule for the requested weekday (nil when absent) and the
// requested start time, it derives the appointment end time and checks
// containment in the working window.
//
// Checks run in order, first failure wins:
//  1. no rule, or rule inactive
//  2. start before the window opens
//  3. derived end after the window closes (a slot reaching past midnight
//     always trips this, since windows end within the same day)
//
// A start equal to the window's end is rejected by check 3 alone, via
// the derived end time. There is deliberately no slot-alignment rule: a
// start need not fall on a slot-duration boundary.
func resolveSlot(rule *entity.DoctorAvailability, startTime string) (string, error) {
	if rule == nil || !rule.IsActive {
		return "", ErrDoctorUnavailable
	}

	start, err := parseClock(startTime)
	if err != nil {
		return "", err
	}
	windowStart, err := parseClock(rule.StartTime)
	if err != nil {
		return "", err
	}
	windowEnd, err := parseClock(rule.EndTime)
	if err != nil {
		return "", err
	}

	if start < windowStart {
		return "", &OutsideWindowError{Message: fmt.Sprintf("Doctor starts at %s", rule.StartTime)}
	}

	end := start + rule.SlotDurationMinutes
	if end > windowEnd {
		return "", &OutsideWindowError{
			Message: fmt.Sprintf("Appointment exceeds doctor's working hours (ends at %s)", rule.EndTime),
		}
	}

	return formatClock(end), nil
}
