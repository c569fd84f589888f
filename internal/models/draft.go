package models

import (
	"time"

	"github.com/lib/pq"
)

// DraftStatus represents lifecycle phases for curated draft schedules.
type DraftStatus string

const (
	DraftStatusDraft     DraftStatus = "DRAFT"
	DraftStatusPublished DraftStatus = "PUBLISHED"
)

// DraftSchedule is a named, versioned selection of sections from a term. LockedCRNs are
// sections the optimizer may not move.
type DraftSchedule struct {
	ID         string         `db:"id" json:"id"`
	Term       string         `db:"term" json:"term"`
	Name       string         `db:"name" json:"name"`
	Version    int            `db:"version" json:"version"`
	Status     DraftStatus    `db:"status" json:"status"`
	CRNs       pq.StringArray `db:"crns" json:"crns"`
	LockedCRNs pq.StringArray `db:"locked_crns" json:"lockedCrns"`
	Notes      string         `db:"notes" json:"notes,omitempty"`
	CreatedBy  string         `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsPublished reports whether the draft has been published and is read-only.
func (d *DraftSchedule) IsPublished() bool {
	return d.Status == DraftStatusPublished
}
