package scheduling

import (
	"fmt"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

// DetectOptions suppresses conflicts explained by related sections.
type DetectOptions struct {
	// HideStackedCourses skips pairs that are the same lecture cross-listed at two levels.
	HideStackedCourses bool `json:"hideStackedCourses"`
	// HideLabCorequisites skips lecture + lab corequisite pairs.
	HideLabCorequisites bool `json:"hideLabCorequisites"`
}

// DetectAllConflicts checks every unordered pair of scheduled sections for instructor and
// room double-bookings. A pair yields at most one conflict of each type.
func DetectAllConflicts(courses []*models.Course, opts DetectOptions) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	for i := 0; i < len(courses); i++ {
		a := courses[i]
		if a == nil || !a.IsScheduled() {
			continue
		}
		for j := i + 1; j < len(courses); j++ {
			b := courses[j]
			if b == nil || !b.IsScheduled() {
				continue
			}
			if opts.HideStackedCourses && IsStackedPair(a, b) {
				continue
			}
			if opts.HideLabCorequisites && IsCorequisitePair(a, b) {
				continue
			}

			if HaveSameInstructor(a, b) {
				if overlap := FindTimeOverlap(a, b); overlap != nil {
					conflicts = append(conflicts, models.Conflict{
						Type:         models.ConflictTypeInstructor,
						Course1:      a,
						Course2:      b,
						Day:          overlap.Day,
						OverlapStart: overlap.Start,
						OverlapEnd:   overlap.End,
						Description:  instructorConflictDescription(a, b, overlap),
					})
				}
			}
			if room := FindRoomConflict(a, b); room != nil {
				conflicts = append(conflicts, models.Conflict{
					Type:         models.ConflictTypeRoom,
					Course1:      a,
					Course2:      b,
					Day:          room.Day,
					OverlapStart: room.Start,
					OverlapEnd:   room.End,
					Location:     room.Location,
					Description:  roomConflictDescription(a, b, room),
				})
			}
		}
	}
	return conflicts
}

// MarkCoursesWithConflicts returns shallow copies of the courses with HasConflicts set
// iff the CRN appears on either side of a conflict. The input courses are left untouched.
func MarkCoursesWithConflicts(courses []*models.Course, conflicts []models.Conflict) []*models.Course {
	flagged := make(map[string]bool, len(conflicts)*2)
	for _, c := range conflicts {
		if c.Course1 != nil {
			flagged[c.Course1.CRN] = true
		}
		if c.Course2 != nil {
			flagged[c.Course2.CRN] = true
		}
	}
	marked := make([]*models.Course, 0, len(courses))
	for _, course := range courses {
		if course == nil {
			continue
		}
		cp := *course
		cp.HasConflicts = flagged[course.CRN]
		marked = append(marked, &cp)
	}
	return marked
}

// CountConflictsByType tallies conflicts per type.
func CountConflictsByType(conflicts []models.Conflict) map[models.ConflictType]int {
	counts := map[models.ConflictType]int{
		models.ConflictTypeInstructor: 0,
		models.ConflictTypeRoom:       0,
	}
	for _, c := range conflicts {
		counts[c.Type]++
	}
	return counts
}

func instructorConflictDescription(a, b *models.Course, o *Overlap) string {
	return fmt.Sprintf("%s is scheduled for %s and %s on %s %s-%s",
		a.InstructorName(), a.Code(), b.Code(), o.Day, models.FormatMinutes(o.Start), models.FormatMinutes(o.End))
}

func roomConflictDescription(a, b *models.Course, o *RoomOverlap) string {
	return fmt.Sprintf("%s is booked for %s and %s on %s %s-%s",
		o.Location, a.Code(), b.Code(), o.Day, models.FormatMinutes(o.Start), models.FormatMinutes(o.End))
}
