package availability

import (
	"iter"
	"slices"

	"reserva/models"
)

// Enumerate yields candidate start minutes for a booking of the given
// duration: for each open, non-full slot it steps from the slot start in
// StepMinutes increments while the whole window still fits, skipping starts
// before minStart and windows covered by a blocked period. The sequence is
// lazy and finite; every range over it restarts from the first slot.
func (r *Resolver) Enumerate(slots []models.TimeSlot, blocked []models.BlockedPeriod, date string, durationMinutes, minStart int) iter.Seq[int] {
	step := r.StepMinutes
	if step <= 0 {
		step = 30
	}
	return func(yield func(int) bool) {
		for _, slot := range slots {
			if !slot.HasCapacity() {
				continue
			}
			for candidate := slot.Start; candidate+durationMinutes <= slot.End; candidate += step {
				if candidate < minStart {
					continue
				}
				if overlapsBlocked(blocked, date, candidate, candidate+durationMinutes) {
					continue
				}
				if !yield(candidate) {
					return
				}
			}
		}
	}
}

// CollectClock materializes an alternative sequence as "HH:MM" strings for
// transport. A nil sequence collects to nil.
func CollectClock(seq iter.Seq[int]) []string {
	if seq == nil {
		return nil
	}
	var out []string
	for minute := range seq {
		out = append(out, models.MinutesToClock(minute))
	}
	return out
}

// Collect materializes an alternative sequence as raw minutes, sorted.
func Collect(seq iter.Seq[int]) []int {
	if seq == nil {
		return nil
	}
	out := slices.Collect(seq)
	slices.Sort(out)
	return out
}
