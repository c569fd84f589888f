package dto

import (
	"time"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

// TermQuery selects the term an analysis runs over.
type TermQuery struct {
	Term string `form:"term" validate:"required,max=32"`
}

// ConflictQuery selects the term and which explained conflicts to hide.
type ConflictQuery struct {
	Term        string `form:"term" validate:"required,max=32"`
	HideStacked bool   `form:"hideStacked"`
	HideCoreqs  bool   `form:"hideCoreqs"`
}

// ConflictReport lists the double-bookings of a term.
type ConflictReport struct {
	Term        string                      `json:"term"`
	HideStacked bool                        `json:"hideStacked"`
	HideCoreqs  bool                        `json:"hideCoreqs"`
	Total       int                         `json:"total"`
	ByType      map[models.ConflictType]int `json:"byType"`
	Conflicts   []models.Conflict           `json:"conflicts"`
	GeneratedAt time.Time                   `json:"generatedAt"`
}

// GroupsResponse lists display groups of a term.
type GroupsResponse struct {
	Term        string                         `json:"term"`
	Total       int                            `json:"total"`
	ByType      map[models.CourseGroupType]int `json:"byType"`
	Groups      []models.CourseGroup           `json:"groups"`
	GeneratedAt time.Time                      `json:"generatedAt"`
}

// StackedPairsResponse lists stacked pairs ordered by base CRN.
type StackedPairsResponse struct {
	Term        string                   `json:"term"`
	Total       int                      `json:"total"`
	Pairs       []models.StackedPairInfo `json:"pairs"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

// AnalysisSummary aggregates simple counts for a term.
type AnalysisSummary struct {
	Term              string                         `json:"term"`
	Sections          int                            `json:"sections"`
	ScheduledSections int                            `json:"scheduledSections"`
	Conflicts         int                            `json:"conflicts"`
	ConflictsByType   map[models.ConflictType]int    `json:"conflictsByType"`
	Groups            int                            `json:"groups"`
	GroupsByType      map[models.CourseGroupType]int `json:"groupsByType"`
	StackedPairs      int                            `json:"stackedPairs"`
	DisplayCourses    int                            `json:"displayCourses"`
	HideStacked       bool                           `json:"hideStacked"`
	HideCoreqs        bool                           `json:"hideCoreqs"`
	GeneratedAt       time.Time                      `json:"generatedAt"`
}
