package dto

// ListCoursesQuery filters the course listing.
type ListCoursesQuery struct {
	Term string `form:"term" validate:"required,max=32"`
}

// ImportCoursesResponse summarises a CSV import.
type ImportCoursesResponse struct {
	Terms    []string `json:"terms"`
	Sections int      `json:"sections"`
	Upserted int      `json:"upserted"`
}
