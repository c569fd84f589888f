package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

func TestFindStackedPairs(t *testing.T) {
	grad := newCourse("G", "CSCD", "527", taughtBy("x@ewu.edu"), meetsIn("MW", 600, 650, "CEB", "210"), enrolled(6, 10))
	undergrad := newCourse("U", "CSCD", "427", taughtBy("x@ewu.edu"), meetsIn("MW", 600, 650, "CEB", "210"), enrolled(25, 30))
	other := newCourse("O", "CSCD", "210", taughtBy("y@ewu.edu"), meets("TR", 480, 530))

	pairs := FindStackedPairs([]*models.Course{grad, undergrad, other})
	require.Len(t, pairs, 1)
	info, ok := pairs["U"]
	require.True(t, ok, "pairs are keyed by the lower-level course")
	assert.Same(t, undergrad, info.BaseCourse)
	assert.Same(t, grad, info.StackedCourse)
	assert.Equal(t, 4, info.BaseLevel)
	assert.Equal(t, 5, info.StackedLevel)
	assert.Equal(t, -19, info.EnrollmentDiff)
	assert.Equal(t, -20, info.CapacityDiff)
	assert.True(t, info.SameInstructor)
	assert.True(t, info.SameTime)
	assert.True(t, info.SameRoom)

	assert.True(t, IsStackedVersion(grad, pairs))
	assert.False(t, IsStackedVersion(undergrad, pairs))
	assert.False(t, IsStackedVersion(other, pairs))
}

func TestFindStackedPairsDoesNotRequireSameRoom(t *testing.T) {
	undergrad := newCourse("U", "CSCD", "430", taughtBy("x@ewu.edu"), meetsIn("TR", 600, 650, "CEB", "210"))
	grad := newCourse("G", "CSCD", "530", taughtBy("x@ewu.edu"), meetsIn("TR", 610, 660, "CEB", "207"))

	pairs := FindStackedPairs([]*models.Course{undergrad, grad})
	require.Contains(t, pairs, "U")
	assert.False(t, pairs["U"].SameRoom)
	assert.False(t, pairs["U"].SameTime)
}

func TestFindStackedPairsFirstPairingWins(t *testing.T) {
	x := taughtBy("x@ewu.edu")
	base := newCourse("U", "CSCD", "427", x, meets("MW", 600, 650))
	gradA := newCourse("G1", "CSCD", "527", x, meets("MW", 600, 650))
	gradB := newCourse("G2", "CSCD", "527", x, meets("MW", 600, 650))

	pairs := FindStackedPairs([]*models.Course{base, gradA, gradB})
	require.Len(t, pairs, 1)
	assert.Equal(t, "G1", pairs["U"].StackedCourse.CRN)
	assert.False(t, IsStackedVersion(gradB, pairs))
}

func TestFilterStackedVersions(t *testing.T) {
	x := taughtBy("x@ewu.edu")
	undergrad := newCourse("U", "CSCD", "427", x, meets("MW", 600, 650))
	grad := newCourse("G", "CSCD", "527", x, meets("MW", 600, 650))
	other := newCourse("O", "CYBR", "403", x, meets("TR", 600, 650))
	courses := []*models.Course{grad, undergrad, other}

	visible := FilterStackedVersions(courses, FindStackedPairs(courses))
	require.Len(t, visible, 2)
	assert.Equal(t, "U", visible[0].CRN)
	assert.Equal(t, "O", visible[1].CRN)
}

func TestCourseLevelHelpers(t *testing.T) {
	assert.Equal(t, 4, CourseLevel("477L"))
	assert.Equal(t, 0, CourseLevel("TBD"))
	assert.True(t, IsLabNumber("210L"))
	assert.False(t, IsLabNumber("210"))
	assert.Equal(t, "05", parseCourseNumber("405").base())
}
