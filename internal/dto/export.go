package dto

import "time"

// ExportConflictsRequest asks for a conflict report file.
type ExportConflictsRequest struct {
	Term        string `json:"term" validate:"required,max=32"`
	Format      string `json:"format" validate:"required,oneof=csv pdf"`
	HideStacked bool   `json:"hideStacked"`
	HideCoreqs  bool   `json:"hideCoreqs"`
}

// ExportResponse points at a generated report.
type ExportResponse struct {
	Format    string    `json:"format"`
	Conflicts int       `json:"conflicts"`
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
