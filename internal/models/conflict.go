package models

import "sort"

// ConflictType classifies a double-booking.
type ConflictType string

const (
	ConflictTypeInstructor ConflictType = "instructor"
	ConflictTypeRoom       ConflictType = "room"
)

// Conflict records two sections double-booking an instructor or a room.
// Course1 and Course2 point at the analysed input courses.
type Conflict struct {
	Type         ConflictType `json:"type"`
	Course1      *Course      `json:"course1"`
	Course2      *Course      `json:"course2"`
	Day          Day          `json:"day"`
	OverlapStart int          `json:"overlapStart"`
	OverlapEnd   int          `json:"overlapEnd"`
	Location     string       `json:"location,omitempty"`
	Description  string       `json:"description"`
}

// ConflictKey identifies a conflict independent of course orientation.
type ConflictKey struct {
	Type  ConflictType
	CRN1  string
	CRN2  string
	Day   Day
	Start int
	End   int
}

// Key returns the orientation-free identity of the conflict.
func (c Conflict) Key() ConflictKey {
	a, b := crnOf(c.Course1), crnOf(c.Course2)
	if b < a {
		a, b = b, a
	}
	return ConflictKey{Type: c.Type, CRN1: a, CRN2: b, Day: c.Day, Start: c.OverlapStart, End: c.OverlapEnd}
}

// Involves reports whether the conflict references the given CRN.
func (c Conflict) Involves(crn string) bool {
	return crnOf(c.Course1) == crn || crnOf(c.Course2) == crn
}

// SameConflictSet compares two conflict lists ignoring order and course orientation.
func SameConflictSet(a, b []Conflict) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[ConflictKey]int, len(a))
	for _, c := range a {
		counts[c.Key()]++
	}
	for _, c := range b {
		key := c.Key()
		if counts[key] == 0 {
			return false
		}
		counts[key]--
	}
	return true
}

// SortConflicts orders conflicts deterministically by day, start and CRN pair.
func SortConflicts(conflicts []Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		ki, kj := conflicts[i].Key(), conflicts[j].Key()
		if ki.Day != kj.Day {
			return dayIndex(ki.Day) < dayIndex(kj.Day)
		}
		if ki.Start != kj.Start {
			return ki.Start < kj.Start
		}
		if ki.CRN1 != kj.CRN1 {
			return ki.CRN1 < kj.CRN1
		}
		if ki.CRN2 != kj.CRN2 {
			return ki.CRN2 < kj.CRN2
		}
		return ki.Type < kj.Type
	})
}

func dayIndex(d Day) int {
	for i, day := range WeekDays {
		if day == d {
			return i
		}
	}
	return len(WeekDays)
}

func crnOf(c *Course) string {
	if c == nil {
		return ""
	}
	return c.CRN
}
