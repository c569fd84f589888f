package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

func TestHaveSameInstructor(t *testing.T) {
	a := newCourse("1", "CSCD", "210", taughtBy("x@ewu.edu"))
	b := newCourse("2", "CSCD", "211", taughtBy("x@ewu.edu"))
	c := newCourse("3", "CSCD", "212", taughtBy("X@ewu.edu"))
	none := newCourse("4", "CSCD", "213")

	assert.True(t, HaveSameInstructor(a, b))
	assert.False(t, HaveSameInstructor(a, c), "email comparison is case-sensitive")
	assert.False(t, HaveSameInstructor(a, none))
	assert.False(t, HaveSameInstructor(none, none))
}

func TestFindTimeOverlap(t *testing.T) {
	a := newCourse("1", "CSCD", "210", meets("MWF", 480, 530))
	b := newCourse("2", "CSCD", "211", meets("M", 500, 550))
	c := newCourse("3", "CSCD", "212", meets("M", 530, 580))
	d := newCourse("4", "CSCD", "213", meets("TR", 480, 530))

	overlap := FindTimeOverlap(a, b)
	require.NotNil(t, overlap)
	assert.Equal(t, models.DayMonday, overlap.Day)
	assert.Equal(t, 500, overlap.Start)
	assert.Equal(t, 530, overlap.End)

	assert.Nil(t, FindTimeOverlap(a, c), "touching intervals are half-open and do not overlap")
	assert.Nil(t, FindTimeOverlap(a, d), "no shared weekday")
}

func TestFindTimeOverlapChecksEveryMeetingPair(t *testing.T) {
	a := newCourse("1", "CSCD", "300", meets("MW", 480, 530), meets("F", 780, 830))
	b := newCourse("2", "CSCD", "301", meets("TR", 600, 650), meets("F", 800, 850))

	overlap := FindTimeOverlap(a, b)
	require.NotNil(t, overlap)
	assert.Equal(t, models.DayFriday, overlap.Day)
	assert.Equal(t, 800, overlap.Start)
	assert.Equal(t, 830, overlap.End)
}

func TestFindRoomConflict(t *testing.T) {
	a := newCourse("1", "CSCD", "210", meetsIn("MW", 480, 530, "CEB", "101"))
	b := newCourse("2", "MATH", "161", meetsIn("W", 500, 560, "CEB", "101"))
	c := newCourse("3", "MATH", "162", meetsIn("W", 500, 560, "CEB", "102"))
	noRoom := newCourse("4", "MATH", "163", meets("W", 500, 560))

	room := FindRoomConflict(a, b)
	require.NotNil(t, room)
	assert.Equal(t, "CEB 101", room.Location)
	assert.Equal(t, models.DayWednesday, room.Day)
	assert.Equal(t, 500, room.Start)
	assert.Equal(t, 530, room.End)

	assert.True(t, HaveSameRoom(a, b))
	assert.False(t, HaveSameRoom(a, c))
	assert.Nil(t, FindRoomConflict(a, c))
	assert.False(t, HaveSameRoom(noRoom, noRoom), "missing locations never match")
}

func TestPairwisePredicatesAreSymmetric(t *testing.T) {
	courses := []*models.Course{
		newCourse("1", "CSCD", "427", taughtBy("x@ewu.edu"), meets("MW", 600, 650)),
		newCourse("2", "CSCD", "527", taughtBy("x@ewu.edu"), meets("MW", 600, 650)),
		newCourse("3", "CSCD", "427L", taughtBy("x@ewu.edu"), meets("MW", 620, 700)),
		newCourse("4", "CSCD", "527L", taughtBy("x@ewu.edu"), meets("W", 640, 700)),
		newCourse("5", "CYBR", "303", taughtBy("y@ewu.edu"), meets("TR", 480, 530)),
		newCourse("6", "CYBR", "403", taughtBy("y@ewu.edu"), meets("TR", 480, 530)),
		newCourse("7", "CSCD", "210", meets("MWF", 480, 530)),
		newCourse("8", "CSCD", "210L", taughtBy("z@ewu.edu"), meets("F", 500, 600)),
	}
	for _, a := range courses {
		for _, b := range courses {
			assert.Equal(t, IsCorequisitePair(a, b), IsCorequisitePair(b, a), "coreq %s/%s", a.CRN, b.CRN)
			assert.Equal(t, IsStackedPair(a, b), IsStackedPair(b, a), "stacked %s/%s", a.CRN, b.CRN)
			assert.Equal(t, HaveSameInstructor(a, b), HaveSameInstructor(b, a), "instructor %s/%s", a.CRN, b.CRN)
			assert.Equal(t, HasTimeOverlap(a, b), HasTimeOverlap(b, a), "overlap %s/%s", a.CRN, b.CRN)
		}
	}
}
