package scheduling

import (
	"fmt"
	"strings"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

// IsCorequisitePair reports whether a and b are a lecture and its lab: same subject, same
// number apart from a single trailing "L" carried by exactly one of them, same instructor
// and overlapping meetings.
func IsCorequisitePair(a, b *models.Course) bool {
	if a == nil || b == nil || a.Subject != b.Subject {
		return false
	}
	na, nb := parseCourseNumber(a.CourseNumber), parseCourseNumber(b.CourseNumber)
	if na.isLab == nb.isLab {
		return false
	}
	if na.stem == "" || na.stem != nb.stem {
		return false
	}
	return HaveSameInstructor(a, b) && HasTimeOverlap(a, b)
}

// IsStackedPair reports whether a and b are one lecture cross-listed at adjacent levels
// (400/500 or 500/600): same subject and base number, levels one apart and both at least
// 400, same instructor and overlapping meetings.
func IsStackedPair(a, b *models.Course) bool {
	if a == nil || b == nil || a.Subject != b.Subject {
		return false
	}
	na, nb := parseCourseNumber(a.CourseNumber), parseCourseNumber(b.CourseNumber)
	if !na.valid || !nb.valid || na.base() != nb.base() {
		return false
	}
	la, lb := na.level(), nb.level()
	if la-lb != 1 && lb-la != 1 {
		return false
	}
	if min(la, lb) < minStackedLevel {
		return false
	}
	return HaveSameInstructor(a, b) && HasTimeOverlap(a, b)
}

// groupBuilder carries the bookkeeping for one BuildCourseGroups pass.
type groupBuilder struct {
	courses      []*models.Course
	labOf        map[string]*models.Course
	primaryOfLab map[string]*models.Course
	processed    map[string]bool
}

// BuildCourseGroups merges corequisite and stacked sections into display groups. Every
// input CRN ends up in exactly one group; groups follow the input order of their head.
func BuildCourseGroups(courses []*models.Course) []models.CourseGroup {
	b := &groupBuilder{
		courses:      compactCourses(courses),
		labOf:        make(map[string]*models.Course),
		primaryOfLab: make(map[string]*models.Course),
		processed:    make(map[string]bool),
	}
	b.indexCorequisites()

	groups := make([]models.CourseGroup, 0, len(b.courses))
	for _, course := range b.courses {
		if b.processed[course.CRN] {
			continue
		}
		if _, absorbed := b.primaryOfLab[course.CRN]; absorbed {
			continue
		}
		groups = append(groups, b.buildGroup(course))
	}

	// Labs whose primary was taken by another group's lab slot are left over; they still
	// need a group of their own.
	for _, course := range b.courses {
		if !b.processed[course.CRN] {
			groups = append(groups, b.assemble(course, nil, nil, nil))
		}
	}
	return groups
}

// IndexGroupsByCRN maps every member CRN to its group.
func IndexGroupsByCRN(groups []models.CourseGroup) map[string]*models.CourseGroup {
	index := make(map[string]*models.CourseGroup)
	for i := range groups {
		for _, crn := range groups[i].AllCRNs {
			index[crn] = &groups[i]
		}
	}
	return index
}

func (b *groupBuilder) indexCorequisites() {
	for i := 0; i < len(b.courses); i++ {
		for j := i + 1; j < len(b.courses); j++ {
			x, y := b.courses[i], b.courses[j]
			if !IsCorequisitePair(x, y) {
				continue
			}
			primary, lab := x, y
			if IsLabNumber(x.CourseNumber) {
				primary, lab = y, x
			}
			if _, taken := b.labOf[primary.CRN]; taken {
				continue
			}
			if _, taken := b.primaryOfLab[lab.CRN]; taken {
				continue
			}
			b.labOf[primary.CRN] = lab
			b.primaryOfLab[lab.CRN] = primary
		}
	}
}

func (b *groupBuilder) buildGroup(head *models.Course) models.CourseGroup {
	primary := head
	var stackedPrimary *models.Course
	if partner := b.findStackedPartner(head, nil); partner != nil {
		stackedPrimary = partner
		if CourseLevel(partner.CourseNumber) < CourseLevel(head.CourseNumber) {
			primary, stackedPrimary = partner, head
		}
	}

	coreqLab := b.availableLab(primary)
	var stackedLab *models.Course
	if stackedPrimary != nil {
		stackedLab = b.availableLab(stackedPrimary)
	}
	if stackedLab == nil && coreqLab != nil {
		stackedLab = b.findStackedPartner(coreqLab, []*models.Course{primary, stackedPrimary})
	}

	return b.assemble(primary, coreqLab, stackedPrimary, stackedLab)
}

// findStackedPartner returns the first unprocessed section stacked with course that has
// the same lab-ness, skipping the excluded sections.
func (b *groupBuilder) findStackedPartner(course *models.Course, exclude []*models.Course) *models.Course {
	isLab := IsLabNumber(course.CourseNumber)
	for _, candidate := range b.courses {
		if candidate.CRN == course.CRN || b.processed[candidate.CRN] || isExcluded(candidate, exclude) {
			continue
		}
		if IsLabNumber(candidate.CourseNumber) != isLab {
			continue
		}
		if IsStackedPair(course, candidate) {
			return candidate
		}
	}
	return nil
}

func (b *groupBuilder) availableLab(primary *models.Course) *models.Course {
	lab, ok := b.labOf[primary.CRN]
	if !ok || b.processed[lab.CRN] {
		return nil
	}
	return lab
}

func (b *groupBuilder) assemble(primary, coreqLab, stackedPrimary, stackedLab *models.Course) models.CourseGroup {
	group := models.CourseGroup{
		ID:             primary.CRN,
		Primary:        primary,
		CoreqLab:       coreqLab,
		StackedPrimary: stackedPrimary,
		StackedLab:     stackedLab,
	}
	members := group.Members()
	numbers := make([]string, 0, len(members))
	for _, member := range members {
		b.processed[member.CRN] = true
		group.AllCRNs = append(group.AllCRNs, member.CRN)
		group.CombinedEnrollment += member.Enrollment.Current
		group.CombinedCapacity += member.Enrollment.Maximum
		numbers = append(numbers, member.CourseNumber)
	}
	group.IsStandalone = len(members) == 1
	group.DisplayCode = strings.Join(numbers, "/")
	group.DisplayTitle = fmt.Sprintf("%s %s: %s", primary.Subject, group.DisplayCode, primary.Title)

	switch {
	case group.IsStandalone:
		group.Type = models.CourseGroupStandalone
	case stackedPrimary == nil && stackedLab == nil:
		group.Type = models.CourseGroupCorequisite
	case coreqLab == nil && stackedLab == nil:
		group.Type = models.CourseGroupStacked
	default:
		group.Type = models.CourseGroupStackedCorequisite
	}
	return group
}

func isExcluded(course *models.Course, exclude []*models.Course) bool {
	for _, ex := range exclude {
		if ex != nil && ex.CRN == course.CRN {
			return true
		}
	}
	return false
}

func compactCourses(courses []*models.Course) []*models.Course {
	out := make([]*models.Course, 0, len(courses))
	seen := make(map[string]bool, len(courses))
	for _, c := range courses {
		if c == nil || seen[c.CRN] {
			continue
		}
		seen[c.CRN] = true
		out = append(out, c)
	}
	return out
}
