package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

func conflictingPair() []*models.Course {
	return []*models.Course{
		newCourse("A", "CSCD", "210", taughtBy("x@e.edu"), meets("M", 480, 530)),
		newCourse("B", "CSCD", "211", taughtBy("x@e.edu"), meets("M", 500, 550)),
		newCourse("C", "CSCD", "212", taughtBy("y@e.edu"), meets("M", 600, 650)),
	}
}

func TestOptimizeScheduleNoConflicts(t *testing.T) {
	courses := []*models.Course{
		newCourse("A", "CSCD", "210", taughtBy("x@e.edu"), meets("M", 480, 530)),
		newCourse("B", "CSCD", "211", taughtBy("x@e.edu"), meets("M", 600, 650)),
	}

	perms := OptimizeSchedule(context.Background(), courses, DefaultOptimizeOptions())
	require.Len(t, perms, 1)
	assert.Equal(t, 0, perms[0].ConflictCount)
	assert.Equal(t, 0, perms[0].ChangeCount)
	assert.Equal(t, 1.0, perms[0].SimilarityScore)
	assert.Len(t, perms[0].Assignments, 2)
}

func TestOptimizeScheduleFindsConflictFreeSlot(t *testing.T) {
	courses := conflictingPair()
	require.Len(t, DetectAllConflicts(courses, DetectOptions{}), 1)
	require.True(t, HasConflicts(courses))

	perms := OptimizeSchedule(context.Background(), courses, DefaultOptimizeOptions())
	require.NotEmpty(t, perms)
	best := perms[0]
	assert.Equal(t, 0, best.ConflictCount)
	require.Len(t, best.Changes, 1)
	assert.Equal(t, models.ChangeFieldTime, best.Changes[0].Field)
	assert.InDelta(t, 1-1.0/12, best.SimilarityScore, 1e-9)
	assert.Equal(t, "perm-1", best.ID)
}

func TestOptimizeScheduleStrictImprovement(t *testing.T) {
	x := taughtBy("x@e.edu")
	courses := []*models.Course{
		newCourse("A", "CSCD", "210", x, meetsIn("M", 480, 530, "CEB", "101")),
		newCourse("B", "CSCD", "211", x, meetsIn("M", 500, 550, "CEB", "102")),
		newCourse("C", "CSCD", "212", taughtBy("y@e.edu"), meetsIn("M", 510, 560, "CEB", "101")),
		newCourse("D", "CSCD", "213", taughtBy("z@e.edu"), meetsIn("TR", 600, 650, "CEB", "103")),
	}
	original := CountConflicts(ProjectAssignments(courses))
	require.Greater(t, original, 0)

	perms := OptimizeSchedule(context.Background(), courses, OptimizeOptions{MaxPermutations: 50, MaxTime: time.Second, AllowTimeChange: true, AllowRoomChange: true})
	require.NotEmpty(t, perms)
	for i, p := range perms {
		assert.Less(t, p.ConflictCount, original)
		assert.Equal(t, len(p.Changes), p.ChangeCount)
		assert.GreaterOrEqual(t, p.SimilarityScore, 0.0)
		assert.LessOrEqual(t, p.SimilarityScore, 1.0)
		if i > 0 {
			prev := perms[i-1]
			ordered := prev.ConflictCount < p.ConflictCount ||
				(prev.ConflictCount == p.ConflictCount && prev.SimilarityScore >= p.SimilarityScore)
			assert.True(t, ordered, "permutations are ranked")
		}
	}
}

func TestOptimizeScheduleHonoursLockedCourses(t *testing.T) {
	courses := conflictingPair()
	originals := ProjectAssignments(courses)

	perms := OptimizeSchedule(context.Background(), courses, OptimizeOptions{
		MaxPermutations: 20,
		MaxTime:         time.Second,
		AllowTimeChange: true,
		AllowRoomChange: true,
		LockedCRNs:      []string{"A"},
	})
	require.NotEmpty(t, perms)
	for _, p := range perms {
		assert.Equal(t, originals[0], p.Assignments[0], "locked assignment must be untouched")
		for _, ch := range p.Changes {
			assert.NotEqual(t, "A", ch.CRN)
		}
	}
}

func TestOptimizeScheduleAllLockedFindsNothing(t *testing.T) {
	perms := OptimizeSchedule(context.Background(), conflictingPair(), OptimizeOptions{
		AllowTimeChange: true,
		AllowRoomChange: true,
		LockedCRNs:      []string{"A", "B"},
	})
	assert.NotNil(t, perms)
	assert.Empty(t, perms, "no alternative is an empty result, not an error")
}

func TestOptimizeScheduleRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Optimize(ctx, conflictingPair(), DefaultOptimizeOptions())
	assert.True(t, result.Interrupted)
	assert.Equal(t, 0, result.Evaluated)
	assert.Empty(t, result.Permutations)
	assert.Equal(t, 1, result.OriginalConflicts)
}

func TestOptimizeScheduleCapsPermutations(t *testing.T) {
	x := taughtBy("x@e.edu")
	var courses []*models.Course
	courses = append(courses,
		newCourse("A", "CSCD", "210", x, meets("M", 480, 530)),
		newCourse("B", "CSCD", "211", x, meets("M", 500, 550)),
	)
	for i, start := range []int{600, 660, 720, 780, 840} {
		courses = append(courses, newCourse(string(rune('C'+i)), "MATH", "100", taughtBy(string(rune('c'+i))+"@e.edu"), meets("T", start, start+50)))
	}

	perms := OptimizeSchedule(context.Background(), courses, OptimizeOptions{MaxPermutations: 3, MaxTime: time.Second, AllowTimeChange: true})
	assert.Len(t, perms, 3)
}

func TestOptimizeScheduleReportsProgress(t *testing.T) {
	x := taughtBy("x@e.edu")
	var courses []*models.Course
	for i := 0; i < 30; i++ {
		start := 480 + i*10
		courses = append(courses, newCourse(string(rune('A'+i)), "CSCD", "300", x, meetsIn("MW", start, start+50, "CEB", string(rune('a'+i)))))
	}

	var reports []int
	result := Optimize(context.Background(), courses, OptimizeOptions{
		MaxPermutations: 1000,
		MaxTime:         5 * time.Second,
		AllowTimeChange: true,
		AllowRoomChange: true,
		OnProgress:      func(p int) { reports = append(reports, p) },
	})
	require.GreaterOrEqual(t, result.Evaluated, 100)
	require.NotEmpty(t, reports)
	assert.Equal(t, 10, reports[0])
	for _, p := range reports {
		assert.LessOrEqual(t, p, 100)
	}
}

func TestAssignmentsConflictIgnoresTBA(t *testing.T) {
	slot := models.TimeSlot{Days: []models.Day{models.DayMonday}, StartMinutes: 480, EndMinutes: 530}
	a := models.CourseAssignment{CRN: "A", TimeSlot: slot, Room: models.TBA, Instructor: models.TBA}
	b := models.CourseAssignment{CRN: "B", TimeSlot: slot, Room: models.TBA, Instructor: models.TBA}
	assert.False(t, AssignmentsConflict(a, b))

	b.Room, a.Room = "CEB 101", "CEB 101"
	assert.True(t, AssignmentsConflict(a, b))

	b.TimeSlot = models.TimeSlot{}
	assert.False(t, AssignmentsConflict(a, b), "unscheduled assignments never conflict")
}

func TestCandidateIteratorSkipsCurrentValues(t *testing.T) {
	assignments := ProjectAssignments([]*models.Course{
		newCourse("A", "CSCD", "210", meetsIn("M", 480, 530, "CEB", "101")),
		newCourse("B", "CSCD", "211", meetsIn("T", 480, 530, "CEB", "102")),
	})
	it := newCandidateIterator(assignments, []int{0}, true, true)

	var got []candidate
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, c)
	}
	require.Len(t, got, 2)
	assert.Equal(t, models.ChangeFieldTime, got[0].field)
	assert.Equal(t, 480, got[0].slot.StartMinutes)
	assert.Equal(t, []models.Day{models.DayTuesday}, got[0].slot.Days)
	assert.Equal(t, models.ChangeFieldRoom, got[1].field)
	assert.Equal(t, "CEB 102", got[1].room)
}
