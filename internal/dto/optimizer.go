package dto

import "github.com/jdoner02/cyber-department-schedule-sub000/internal/models"

// OptimizeOptions tunes a single search. Nil toggles fall back to allowing time and room moves.
type OptimizeOptions struct {
	MaxPermutations       int   `json:"maxPermutations" validate:"omitempty,min=1,max=100"`
	MaxTimeMs             int   `json:"maxTimeMs" validate:"omitempty,min=1,max=60000"`
	AllowTimeChange       *bool `json:"allowTimeChange"`
	AllowRoomChange       *bool `json:"allowRoomChange"`
	AllowInstructorChange bool  `json:"allowInstructorChange"`
	AllowCampusChange     bool  `json:"allowCampusChange"`
}

// OptimizeRequest selects the sections of a term to optimise.
type OptimizeRequest struct {
	Term       string   `json:"term" validate:"required,max=32"`
	CRNs       []string `json:"crns" validate:"required,min=1,max=200,dive,required"`
	LockedCRNs []string `json:"lockedCrns" validate:"omitempty,dive,required"`
	OptimizeOptions
}

// OptimizeResponse carries ranked alternatives and search statistics.
type OptimizeResponse struct {
	Term              string                       `json:"term"`
	CRNs              []string                     `json:"crns"`
	OriginalConflicts int                          `json:"originalConflicts"`
	Evaluated         int                          `json:"evaluated"`
	Interrupted       bool                         `json:"interrupted"`
	Permutations      []models.SchedulePermutation `json:"permutations"`
}
