package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

const labSuffix = "L"

// minStackedLevel is the lowest course level that can take part in a stacked pair.
const minStackedLevel = 4

// courseNumber is a parsed catalog number such as "477L".
type courseNumber struct {
	raw     string
	stem    string
	isLab   bool
	numeric int
	valid   bool
}

func parseCourseNumber(raw string) courseNumber {
	raw = strings.TrimSpace(raw)
	stem, isLab := strings.CutSuffix(raw, labSuffix)
	cn := courseNumber{raw: raw, stem: stem, isLab: isLab}

	end := 0
	for end < len(stem) && stem[end] >= '0' && stem[end] <= '9' {
		end++
	}
	if end == 0 {
		return cn
	}
	n, err := strconv.Atoi(stem[:end])
	if err != nil {
		return cn
	}
	cn.numeric = n
	cn.valid = true
	return cn
}

// level is the hundreds digit, e.g. 5 for "577".
func (c courseNumber) level() int {
	return c.numeric / 100
}

// base is the last two digits zero padded, e.g. "77" for "477L" and "05" for "405".
func (c courseNumber) base() string {
	return fmt.Sprintf("%02d", c.numeric%100)
}

// CourseLevel returns the hundreds digit of a course number, or 0 when it is not numeric.
func CourseLevel(number string) int {
	cn := parseCourseNumber(number)
	if !cn.valid {
		return 0
	}
	return cn.level()
}

// IsLabNumber reports whether the course number carries the lab suffix.
func IsLabNumber(number string) bool {
	return parseCourseNumber(number).isLab
}
