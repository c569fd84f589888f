package scheduling

import "github.com/jdoner02/cyber-department-schedule-sub000/internal/models"

// candidate changes exactly one field of one assignment.
type candidate struct {
	index int
	field models.ChangeField
	slot  models.TimeSlot
	room  string
}

// apply returns a copy of the original vector with the candidate's change applied.
func (c candidate) apply(original []models.CourseAssignment) []models.CourseAssignment {
	vector := make([]models.CourseAssignment, len(original))
	copy(vector, original)
	switch c.field {
	case models.ChangeFieldTime:
		vector[c.index].TimeSlot = c.slot
	case models.ChangeFieldRoom:
		vector[c.index].Room = c.room
	}
	return vector
}

// candidateIterator lazily walks targets × (time slots, then rooms). Nothing is buffered
// beyond the distinct slot and room lists, so callers can stop between any two candidates.
type candidateIterator struct {
	original  []models.CourseAssignment
	targets   []int
	slots     []models.TimeSlot
	rooms     []string
	allowTime bool
	allowRoom bool

	target int
	slot   int
	room   int
}

func newCandidateIterator(original []models.CourseAssignment, targets []int, allowTime, allowRoom bool) *candidateIterator {
	return &candidateIterator{
		original:  original,
		targets:   targets,
		slots:     distinctTimeSlots(original),
		rooms:     distinctRooms(original),
		allowTime: allowTime,
		allowRoom: allowRoom,
	}
}

// Next returns the next candidate, or false once the space is exhausted.
func (it *candidateIterator) Next() (candidate, bool) {
	for it.target < len(it.targets) {
		idx := it.targets[it.target]
		current := it.original[idx]

		if it.allowTime {
			for it.slot < len(it.slots) {
				slot := it.slots[it.slot]
				it.slot++
				if slot.Equal(current.TimeSlot) {
					continue
				}
				return candidate{index: idx, field: models.ChangeFieldTime, slot: slot}, true
			}
		}
		if it.allowRoom {
			for it.room < len(it.rooms) {
				room := it.rooms[it.room]
				it.room++
				if room == current.Room {
					continue
				}
				return candidate{index: idx, field: models.ChangeFieldRoom, room: room}, true
			}
		}

		it.target++
		it.slot = 0
		it.room = 0
	}
	return candidate{}, false
}

// distinctTimeSlots lists scheduled slots in first-seen order.
func distinctTimeSlots(assignments []models.CourseAssignment) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(assignments))
	for _, a := range assignments {
		if a.TimeSlot.IsEmpty() {
			continue
		}
		dup := false
		for _, s := range slots {
			if s.Equal(a.TimeSlot) {
				dup = true
				break
			}
		}
		if !dup {
			slots = append(slots, a.TimeSlot)
		}
	}
	return slots
}

// distinctRooms lists known rooms in first-seen order.
func distinctRooms(assignments []models.CourseAssignment) []string {
	rooms := make([]string, 0, len(assignments))
	seen := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		if a.Room == "" || a.Room == models.TBA || seen[a.Room] {
			continue
		}
		seen[a.Room] = true
		rooms = append(rooms, a.Room)
	}
	return rooms
}
