package dto

import "github.com/jdoner02/cyber-department-schedule-sub000/internal/models"

// CreateDraftRequest stores a curated selection of sections.
type CreateDraftRequest struct {
	Term       string   `json:"term" validate:"required,max=32"`
	Name       string   `json:"name" validate:"required,max=120"`
	CRNs       []string `json:"crns" validate:"required,min=1,max=500,dive,required"`
	LockedCRNs []string `json:"lockedCrns" validate:"omitempty,dive,required"`
	Notes      string   `json:"notes" validate:"omitempty,max=2000"`
}

// DraftDetail is a draft with its display courses and remaining conflicts.
type DraftDetail struct {
	Draft         *models.DraftSchedule `json:"draft"`
	Courses       []*models.Course      `json:"courses"`
	Conflicts     []models.Conflict     `json:"conflicts"`
	ConflictCount int                   `json:"conflictCount"`
	MissingCRNs   []string              `json:"missingCrns,omitempty"`
}
