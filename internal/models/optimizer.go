package models

import (
	"fmt"
	"time"
)

// TBA marks an unknown room or instructor in optimizer assignments.
const TBA = "TBA"

// TimeSlot is the weekly time block an assignment occupies.
type TimeSlot struct {
	Days         []Day `json:"days"`
	StartMinutes int   `json:"startMinutes"`
	EndMinutes   int   `json:"endMinutes"`
}

// IsEmpty reports whether the slot has no meeting days.
func (t TimeSlot) IsEmpty() bool {
	return len(t.Days) == 0
}

// Equal compares two slots field by field.
func (t TimeSlot) Equal(other TimeSlot) bool {
	if t.StartMinutes != other.StartMinutes || t.EndMinutes != other.EndMinutes || len(t.Days) != len(other.Days) {
		return false
	}
	for i := range t.Days {
		if t.Days[i] != other.Days[i] {
			return false
		}
	}
	return true
}

// String renders e.g. "MWF 08:00-08:50" or "TBA" for empty slots.
func (t TimeSlot) String() string {
	if t.IsEmpty() {
		return TBA
	}
	return fmt.Sprintf("%s %s-%s", FormatDayLetters(t.Days), FormatMinutes(t.StartMinutes), FormatMinutes(t.EndMinutes))
}

// FormatMinutes renders minutes from midnight as HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CourseAssignment is the optimizer's working projection of a course.
type CourseAssignment struct {
	CRN        string   `json:"crn"`
	CourseCode string   `json:"courseCode"`
	TimeSlot   TimeSlot `json:"timeSlot"`
	Room       string   `json:"room"`
	Instructor string   `json:"instructor"`
	Campus     string   `json:"campus"`
}

// ChangeField names an optimizable assignment field.
type ChangeField string

const (
	ChangeFieldTime       ChangeField = "time"
	ChangeFieldRoom       ChangeField = "room"
	ChangeFieldInstructor ChangeField = "instructor"
	ChangeFieldCampus     ChangeField = "campus"
)

// ScheduleChange is one altered field of one course relative to the original.
type ScheduleChange struct {
	CRN        string      `json:"crn"`
	CourseCode string      `json:"courseCode"`
	Field      ChangeField `json:"field"`
	OldValue   string      `json:"oldValue"`
	NewValue   string      `json:"newValue"`
}

// SchedulePermutation is one candidate alternative assignment of the selected courses.
type SchedulePermutation struct {
	ID              string             `json:"id"`
	Assignments     []CourseAssignment `json:"assignments"`
	ConflictCount   int                `json:"conflictCount"`
	Changes         []ScheduleChange   `json:"changes"`
	ChangeCount     int                `json:"changeCount"`
	SimilarityScore float64            `json:"similarityScore"`
}

// OptimizationStatus tracks async optimizer runs.
type OptimizationStatus string

const (
	OptimizationStatusQueued    OptimizationStatus = "QUEUED"
	OptimizationStatusRunning   OptimizationStatus = "RUNNING"
	OptimizationStatusCompleted OptimizationStatus = "COMPLETED"
	OptimizationStatusCancelled OptimizationStatus = "CANCELLED"
	OptimizationStatusFailed    OptimizationStatus = "FAILED"
)

// OptimizationRun is the state of an asynchronous optimizer job.
type OptimizationRun struct {
	ID                string                `json:"id"`
	Term              string                `json:"term"`
	CRNs              []string              `json:"crns"`
	LockedCRNs        []string              `json:"lockedCrns,omitempty"`
	Status            OptimizationStatus    `json:"status"`
	Progress          int                   `json:"progress"`
	OriginalConflicts int                   `json:"originalConflicts"`
	Evaluated         int                   `json:"evaluated"`
	Interrupted       bool                  `json:"interrupted"`
	Permutations      []SchedulePermutation `json:"permutations"`
	Error             string                `json:"error,omitempty"`
	CreatedBy         string                `json:"createdBy,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	StartedAt         *time.Time            `json:"startedAt,omitempty"`
	FinishedAt        *time.Time            `json:"finishedAt,omitempty"`
}

// Finished reports whether the run reached a terminal state.
func (r *OptimizationRun) Finished() bool {
	switch r.Status {
	case OptimizationStatusCompleted, OptimizationStatusCancelled, OptimizationStatusFailed:
		return true
	}
	return false
}
