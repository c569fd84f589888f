package models

// CourseGroupType describes how the sections of a group relate.
type CourseGroupType string

const (
	CourseGroupStandalone         CourseGroupType = "standalone"
	CourseGroupCorequisite        CourseGroupType = "corequisite"
	CourseGroupStacked            CourseGroupType = "stacked"
	CourseGroupStackedCorequisite CourseGroupType = "stacked_corequisite"
)

// CourseGroup merges up to four sections that are one offering for display purposes:
// a primary, its corequisite lab, a stacked-level primary and that primary's lab.
type CourseGroup struct {
	ID                 string          `json:"id"`
	Type               CourseGroupType `json:"type"`
	Primary            *Course         `json:"primary"`
	CoreqLab           *Course         `json:"coreqLab,omitempty"`
	StackedPrimary     *Course         `json:"stackedPrimary,omitempty"`
	StackedLab         *Course         `json:"stackedLab,omitempty"`
	AllCRNs            []string        `json:"allCrns"`
	IsStandalone       bool            `json:"isStandalone"`
	CombinedEnrollment int             `json:"combinedEnrollment"`
	CombinedCapacity   int             `json:"combinedCapacity"`
	DisplayCode        string          `json:"displayCode"`
	DisplayTitle       string          `json:"displayTitle"`
}

// Members returns present sections in display order.
func (g *CourseGroup) Members() []*Course {
	members := make([]*Course, 0, 4)
	for _, c := range []*Course{g.Primary, g.CoreqLab, g.StackedPrimary, g.StackedLab} {
		if c != nil {
			members = append(members, c)
		}
	}
	return members
}

// StackedPairInfo describes a stacked pair for display suppression.
type StackedPairInfo struct {
	BaseCourse     *Course `json:"baseCourse"`
	StackedCourse  *Course `json:"stackedCourse"`
	BaseLevel      int     `json:"baseLevel"`
	StackedLevel   int     `json:"stackedLevel"`
	EnrollmentDiff int     `json:"enrollmentDiff"`
	CapacityDiff   int     `json:"capacityDiff"`
	SameInstructor bool    `json:"sameInstructor"`
	SameTime       bool    `json:"sameTime"`
	SameRoom       bool    `json:"sameRoom"`
}

// StackedPairMap is keyed by the CRN of the lower-level base course.
type StackedPairMap map[string]StackedPairInfo
