package models

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Role names carried in JWT claims.
const (
	RoleViewer = "viewer"
	RoleChair  = "chair"
	RoleAdmin  = "admin"
)
