package engine

import (
	"time"

	"github.com/piwi3910/GangSheet/internal/model"
)

// Urgency scores below this deadline window count as critical and force
// acceptance of a gang even when it is not cost effective.
const CriticalUrgency = 100

// Urgency maps a task deadline to a priority score. Tighter deadlines score
// higher; a task with no deadline scores zero, and a past-due deadline falls
// in the tightest window.
func Urgency(t model.Task, now time.Time) int {
	if t.Deadline == nil {
		return 0
	}
	remaining := t.Deadline.Sub(now)
	switch {
	case remaining <= 24*time.Hour:
		return 100
	case remaining <= 72*time.Hour:
		return 50
	case remaining <= 168*time.Hour:
		return 25
	default:
		return 0
	}
}

// IsCritical reports whether the task's deadline puts it inside the 24 hour
// window.
func IsCritical(t model.Task, now time.Time) bool {
	return Urgency(t, now) >= CriticalUrgency
}

// UrgencySum totals the urgency of every task in a combination.
func UrgencySum(tasks []model.Task, now time.Time) int {
	sum := 0
	for _, t := range tasks {
		sum += Urgency(t, now)
	}
	return sum
}

// CombinationCritical reports whether any member task is critical.
func CombinationCritical(tasks []model.Task, now time.Time) bool {
	for _, t := range tasks {
		if IsCritical(t, now) {
			return true
		}
	}
	return false
}
