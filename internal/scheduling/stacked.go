package scheduling

import "github.com/jdoner02/cyber-department-schedule-sub000/internal/models"

// FindStackedPairs records stacked pairs keyed by the lower-level course CRN. A course
// joins at most one pair; when it matches several partners the first pairing of the
// pair scan wins.
func FindStackedPairs(courses []*models.Course) models.StackedPairMap {
	pairs := make(models.StackedPairMap)
	paired := make(map[string]bool)
	courses = compactCourses(courses)

	for i := 0; i < len(courses); i++ {
		for j := i + 1; j < len(courses); j++ {
			a, b := courses[i], courses[j]
			if paired[a.CRN] || paired[b.CRN] {
				continue
			}
			if !IsStackedPair(a, b) {
				continue
			}
			base, stacked := a, b
			if CourseLevel(b.CourseNumber) < CourseLevel(a.CourseNumber) {
				base, stacked = b, a
			}
			pairs[base.CRN] = models.StackedPairInfo{
				BaseCourse:     base,
				StackedCourse:  stacked,
				BaseLevel:      CourseLevel(base.CourseNumber),
				StackedLevel:   CourseLevel(stacked.CourseNumber),
				EnrollmentDiff: stacked.Enrollment.Current - base.Enrollment.Current,
				CapacityDiff:   stacked.Enrollment.Maximum - base.Enrollment.Maximum,
				SameInstructor: HaveSameInstructor(base, stacked),
				SameTime:       sameMeetingTimes(base, stacked),
				SameRoom:       HaveSameRoom(base, stacked),
			}
			paired[a.CRN] = true
			paired[b.CRN] = true
		}
	}
	return pairs
}

// IsStackedVersion reports whether course is the higher-level member of a recorded pair,
// i.e. the one hidden from primary display.
func IsStackedVersion(course *models.Course, pairs models.StackedPairMap) bool {
	if course == nil {
		return false
	}
	for _, info := range pairs {
		if info.StackedCourse != nil && info.StackedCourse.CRN == course.CRN {
			return true
		}
	}
	return false
}

// FilterStackedVersions returns the courses to display, dropping the stacked versions.
func FilterStackedVersions(courses []*models.Course, pairs models.StackedPairMap) []*models.Course {
	hidden := make(map[string]bool, len(pairs))
	for _, info := range pairs {
		if info.StackedCourse != nil {
			hidden[info.StackedCourse.CRN] = true
		}
	}
	visible := make([]*models.Course, 0, len(courses))
	for _, c := range courses {
		if c != nil && !hidden[c.CRN] {
			visible = append(visible, c)
		}
	}
	return visible
}

// sameMeetingTimes reports whether both sections meet on identical days and times.
func sameMeetingTimes(a, b *models.Course) bool {
	if len(a.Meetings) != len(b.Meetings) || len(a.Meetings) == 0 {
		return false
	}
	for i := range a.Meetings {
		ma, mb := a.Meetings[i], b.Meetings[i]
		slotA := models.TimeSlot{Days: ma.Days, StartMinutes: ma.StartMinutes, EndMinutes: ma.EndMinutes}
		slotB := models.TimeSlot{Days: mb.Days, StartMinutes: mb.StartMinutes, EndMinutes: mb.EndMinutes}
		if !slotA.Equal(slotB) {
			return false
		}
	}
	return true
}
