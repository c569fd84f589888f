// Package scheduling holds the schedule analysis core: pairwise section comparison,
// conflict detection, course grouping, stacked-course detection and the
// conflict-reducing optimizer. Everything here is synchronous and never mutates
// the courses it is given.
package scheduling

import "github.com/jdoner02/cyber-department-schedule-sub000/internal/models"

// Overlap is the first overlapping weekday interval found between two sections.
type Overlap struct {
	Day   models.Day
	Start int
	End   int
}

// RoomOverlap is an Overlap that also happens in the same room.
type RoomOverlap struct {
	Overlap
	Location string
}

// HaveSameInstructor reports whether both sections have an instructor with the same email.
func HaveSameInstructor(a, b *models.Course) bool {
	if a == nil || b == nil || a.Instructor == nil || b.Instructor == nil {
		return false
	}
	if a.Instructor.Email == "" {
		return false
	}
	return a.Instructor.Email == b.Instructor.Email
}

// FindTimeOverlap scans every meeting pair and returns the first shared weekday whose
// half-open intervals overlap, or nil.
func FindTimeOverlap(a, b *models.Course) *Overlap {
	if a == nil || b == nil {
		return nil
	}
	for _, m1 := range a.Meetings {
		for _, m2 := range b.Meetings {
			if overlap := meetingOverlap(m1, m2); overlap != nil {
				return overlap
			}
		}
	}
	return nil
}

// HasTimeOverlap reports whether any meeting of a overlaps any meeting of b.
func HasTimeOverlap(a, b *models.Course) bool {
	return FindTimeOverlap(a, b) != nil
}

// HaveSameRoom reports whether any meeting pair shares a known building and room.
func HaveSameRoom(a, b *models.Course) bool {
	if a == nil || b == nil {
		return false
	}
	for _, m1 := range a.Meetings {
		for _, m2 := range b.Meetings {
			if sameLocation(m1, m2) {
				return true
			}
		}
	}
	return false
}

// FindRoomConflict returns the first overlapping interval of two meetings held in the
// same building and room, or nil.
func FindRoomConflict(a, b *models.Course) *RoomOverlap {
	if a == nil || b == nil {
		return nil
	}
	for _, m1 := range a.Meetings {
		for _, m2 := range b.Meetings {
			if !sameLocation(m1, m2) {
				continue
			}
			if overlap := meetingOverlap(m1, m2); overlap != nil {
				return &RoomOverlap{Overlap: *overlap, Location: m1.Location()}
			}
		}
	}
	return nil
}

func meetingOverlap(m1, m2 models.Meeting) *Overlap {
	if !intervalsOverlap(m1.StartMinutes, m1.EndMinutes, m2.StartMinutes, m2.EndMinutes) {
		return nil
	}
	for _, day := range m1.Days {
		if !containsDay(m2.Days, day) {
			continue
		}
		return &Overlap{
			Day:   day,
			Start: max(m1.StartMinutes, m2.StartMinutes),
			End:   min(m1.EndMinutes, m2.EndMinutes),
		}
	}
	return nil
}

func intervalsOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

func sameLocation(m1, m2 models.Meeting) bool {
	return m1.HasLocation() && m2.HasLocation() && m1.Building == m2.Building && m1.Room == m2.Room
}

func containsDay(days []models.Day, day models.Day) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
