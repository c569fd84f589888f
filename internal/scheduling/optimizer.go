package scheduling

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

const (
	// trackedFields is the number of assignment fields a similarity score accounts for
	// (time, room, instructor, campus).
	trackedFields = 4

	progressInterval  = 100
	progressReference = 1000

	defaultMaxPermutations = 10
	defaultMaxTime         = 5 * time.Second
)

// OptimizeOptions bounds and steers a search.
type OptimizeOptions struct {
	MaxPermutations       int
	MaxTime               time.Duration
	AllowTimeChange       bool
	AllowRoomChange       bool
	AllowInstructorChange bool
	AllowCampusChange     bool
	LockedCRNs            []string
	// OnProgress receives a rough 0-100 estimate every 100 evaluated candidates.
	OnProgress func(percent int)
}

// DefaultOptimizeOptions allows time and room moves with the default caps.
func DefaultOptimizeOptions() OptimizeOptions {
	return OptimizeOptions{
		MaxPermutations: defaultMaxPermutations,
		MaxTime:         defaultMaxTime,
		AllowTimeChange: true,
		AllowRoomChange: true,
	}
}

// OptimizeResult carries permutations plus search statistics.
type OptimizeResult struct {
	Permutations      []models.SchedulePermutation
	OriginalConflicts int
	Evaluated         int
	// Interrupted is set when the deadline or the context stopped the search early.
	Interrupted bool
}

// OptimizeSchedule searches single-field moves that reduce the conflict count of the given
// courses and returns them ranked by conflict count then similarity. An empty result means
// no improving alternative was found in budget.
func OptimizeSchedule(ctx context.Context, courses []*models.Course, opts OptimizeOptions) []models.SchedulePermutation {
	return Optimize(ctx, courses, opts).Permutations
}

// Optimize is OptimizeSchedule with search statistics.
func Optimize(ctx context.Context, courses []*models.Course, opts OptimizeOptions) OptimizeResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.MaxPermutations <= 0 {
		opts.MaxPermutations = defaultMaxPermutations
	}
	if opts.MaxTime <= 0 {
		opts.MaxTime = defaultMaxTime
	}

	original := ProjectAssignments(courses)
	originalConflicts := CountConflicts(original)
	result := OptimizeResult{OriginalConflicts: originalConflicts, Permutations: []models.SchedulePermutation{}}
	if originalConflicts == 0 {
		result.Permutations = append(result.Permutations, models.SchedulePermutation{
			ID:              "perm-1",
			Assignments:     original,
			ConflictCount:   0,
			Changes:         []models.ScheduleChange{},
			ChangeCount:     0,
			SimilarityScore: 1,
		})
		return result
	}

	locked := make(map[string]bool, len(opts.LockedCRNs))
	for _, crn := range opts.LockedCRNs {
		locked[crn] = true
	}
	targets := make([]int, 0, len(original))
	for _, idx := range conflictingIndices(original) {
		if !locked[original[idx].CRN] {
			targets = append(targets, idx)
		}
	}

	deadline := time.Now().Add(opts.MaxTime)
	it := newCandidateIterator(original, targets, opts.AllowTimeChange, opts.AllowRoomChange)
	for len(result.Permutations) < opts.MaxPermutations {
		if ctx.Err() != nil || time.Now().After(deadline) {
			result.Interrupted = true
			break
		}
		cand, ok := it.Next()
		if !ok {
			break
		}

		vector := cand.apply(original)
		count := CountConflicts(vector)
		result.Evaluated++
		if opts.OnProgress != nil && result.Evaluated%progressInterval == 0 {
			opts.OnProgress(progressPercent(result.Evaluated))
		}
		if count >= originalConflicts {
			continue
		}

		changes := DiffAssignments(original, vector)
		result.Permutations = append(result.Permutations, models.SchedulePermutation{
			Assignments:     vector,
			ConflictCount:   count,
			Changes:         changes,
			ChangeCount:     len(changes),
			SimilarityScore: similarityScore(len(changes), len(original)),
		})
	}

	sort.SliceStable(result.Permutations, func(i, j int) bool {
		pi, pj := result.Permutations[i], result.Permutations[j]
		if pi.ConflictCount != pj.ConflictCount {
			return pi.ConflictCount < pj.ConflictCount
		}
		return pi.SimilarityScore > pj.SimilarityScore
	})
	if len(result.Permutations) > opts.MaxPermutations {
		result.Permutations = result.Permutations[:opts.MaxPermutations]
	}
	for i := range result.Permutations {
		result.Permutations[i].ID = fmt.Sprintf("perm-%d", i+1)
	}
	return result
}

// HasConflicts reports whether the projected assignments of the courses conflict at all.
func HasConflicts(courses []*models.Course) bool {
	return CountConflicts(ProjectAssignments(courses)) > 0
}

// ProjectAssignments maps courses to optimizer assignments using each course's first
// meeting. Courses without meetings get an empty time slot and a TBA room.
func ProjectAssignments(courses []*models.Course) []models.CourseAssignment {
	assignments := make([]models.CourseAssignment, 0, len(courses))
	for _, c := range courses {
		if c == nil {
			continue
		}
		a := models.CourseAssignment{
			CRN:        c.CRN,
			CourseCode: c.Code(),
			Room:       models.TBA,
			Instructor: c.InstructorName(),
			Campus:     c.Campus,
		}
		if len(c.Meetings) > 0 {
			first := c.Meetings[0]
			a.TimeSlot = models.TimeSlot{Days: first.Days, StartMinutes: first.StartMinutes, EndMinutes: first.EndMinutes}
			if loc := first.Location(); loc != "" {
				a.Room = loc
			}
		}
		assignments = append(assignments, a)
	}
	return assignments
}

// AssignmentsConflict reports whether two assignments overlap in time and share either a
// known instructor or a known room.
func AssignmentsConflict(a, b models.CourseAssignment) bool {
	if !slotsOverlap(a.TimeSlot, b.TimeSlot) {
		return false
	}
	sameInstructor := a.Instructor != models.TBA && a.Instructor != "" && a.Instructor == b.Instructor
	sameRoom := a.Room != models.TBA && a.Room != "" && a.Room == b.Room
	return sameInstructor || sameRoom
}

// CountConflicts counts conflicting assignment pairs.
func CountConflicts(assignments []models.CourseAssignment) int {
	count := 0
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			if AssignmentsConflict(assignments[i], assignments[j]) {
				count++
			}
		}
	}
	return count
}

// DiffAssignments lists every field that differs between the original and the candidate.
func DiffAssignments(original, candidate []models.CourseAssignment) []models.ScheduleChange {
	changes := make([]models.ScheduleChange, 0)
	for i := range original {
		if i >= len(candidate) {
			break
		}
		o, c := original[i], candidate[i]
		if !o.TimeSlot.Equal(c.TimeSlot) {
			changes = append(changes, change(o, models.ChangeFieldTime, o.TimeSlot.String(), c.TimeSlot.String()))
		}
		if o.Room != c.Room {
			changes = append(changes, change(o, models.ChangeFieldRoom, o.Room, c.Room))
		}
		if o.Instructor != c.Instructor {
			changes = append(changes, change(o, models.ChangeFieldInstructor, o.Instructor, c.Instructor))
		}
		if o.Campus != c.Campus {
			changes = append(changes, change(o, models.ChangeFieldCampus, o.Campus, c.Campus))
		}
	}
	return changes
}

func change(a models.CourseAssignment, field models.ChangeField, oldValue, newValue string) models.ScheduleChange {
	return models.ScheduleChange{CRN: a.CRN, CourseCode: a.CourseCode, Field: field, OldValue: oldValue, NewValue: newValue}
}

func conflictingIndices(assignments []models.CourseAssignment) []int {
	involved := make([]bool, len(assignments))
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			if AssignmentsConflict(assignments[i], assignments[j]) {
				involved[i] = true
				involved[j] = true
			}
		}
	}
	indices := make([]int, 0)
	for i, ok := range involved {
		if ok {
			indices = append(indices, i)
		}
	}
	return indices
}

func slotsOverlap(a, b models.TimeSlot) bool {
	if a.IsEmpty() || b.IsEmpty() || !intervalsOverlap(a.StartMinutes, a.EndMinutes, b.StartMinutes, b.EndMinutes) {
		return false
	}
	for _, day := range a.Days {
		if containsDay(b.Days, day) {
			return true
		}
	}
	return false
}

func similarityScore(changed, courses int) float64 {
	if courses == 0 {
		return 1
	}
	return 1 - float64(changed)/float64(trackedFields*courses)
}

func progressPercent(evaluated int) int {
	return min(100, int(math.Round(float64(evaluated)/progressReference*100)))
}
