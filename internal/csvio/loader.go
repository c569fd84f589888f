// Package csvio reads registrar course exports and writes conflict reports.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

// ErrMalformed wraps every row-level validation failure.
var ErrMalformed = errors.New("malformed course csv")

// CourseRow is one meeting line of the canonical course export. Rows sharing a CRN describe
// the same section.
type CourseRow struct {
	CRN              string `csv:"crn"`
	Term             string `csv:"term"`
	Subject          string `csv:"subject"`
	CourseNumber     string `csv:"course_number"`
	Section          string `csv:"section"`
	Title            string `csv:"title"`
	Credits          string `csv:"credits"`
	InstructorName   string `csv:"instructor_name"`
	InstructorEmail  string `csv:"instructor_email"`
	Days             string `csv:"days"`
	Start            string `csv:"start"`
	End              string `csv:"end"`
	Building         string `csv:"building"`
	Room             string `csv:"room"`
	MeetingType      string `csv:"meeting_type"`
	Enrollment       string `csv:"enrollment"`
	Capacity         string `csv:"capacity"`
	Waitlist         string `csv:"waitlist"`
	WaitlistCapacity string `csv:"waitlist_capacity"`
	DeliveryMethod   string `csv:"delivery_method"`
	Campus           string `csv:"campus"`
}

// LoadCoursesFile opens path and parses it with LoadCourses.
func LoadCoursesFile(path string) ([]*models.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open courses file: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return LoadCourses(f)
}

// LoadCourses parses canonical course rows and merges rows sharing a term and CRN in
// first-seen order.
func LoadCourses(r io.Reader) ([]*models.Course, error) {
	return LoadCoursesForTerm(r, "")
}

// LoadCoursesForTerm is LoadCourses with defaultTerm filled in for rows that leave the
// term blank, before rows are merged.
func LoadCoursesForTerm(r io.Reader, defaultTerm string) ([]*models.Course, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []CourseRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []*models.Course{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	courses := make([]*models.Course, 0, len(rows))
	byKey := make(map[string]*models.Course, len(rows))
	for i, row := range rows {
		line := i + 2 // header is line 1
		crn := strings.TrimSpace(row.CRN)
		if crn == "" {
			return nil, rowError(line, "crn is required")
		}
		if strings.TrimSpace(row.Term) == "" {
			row.Term = defaultTerm
		}

		meeting, ok, err := row.meeting()
		if err != nil {
			return nil, rowError(line, err.Error())
		}

		parsed, err := row.course()
		if err != nil {
			return nil, rowError(line, err.Error())
		}
		key := parsed.Term + "\x00" + crn
		course, seen := byKey[key]
		if !seen {
			course = parsed
			byKey[key] = course
			courses = append(courses, course)
		} else if course.Code() != parsed.Code() {
			return nil, rowError(line, fmt.Sprintf("crn %s is %s earlier in term %q, not %s", crn, course.Code(), parsed.Term, parsed.Code()))
		}
		if ok {
			course.Meetings = append(course.Meetings, meeting)
		}
	}
	return courses, nil
}

func (r CourseRow) course() (*models.Course, error) {
	subject := strings.ToUpper(strings.TrimSpace(r.Subject))
	number := strings.ToUpper(strings.TrimSpace(r.CourseNumber))
	if subject == "" || number == "" {
		return nil, errors.New("subject and course_number are required")
	}

	credits, err := parseFloat(r.Credits)
	if err != nil {
		return nil, fmt.Errorf("credits: %w", err)
	}
	counts := make([]int, 4)
	for i, raw := range []string{r.Enrollment, r.Capacity, r.Waitlist, r.WaitlistCapacity} {
		if counts[i], err = parseInt(raw); err != nil {
			return nil, fmt.Errorf("enrollment figures: %w", err)
		}
	}

	course := &models.Course{
		CRN:          strings.TrimSpace(r.CRN),
		Term:         strings.TrimSpace(r.Term),
		Subject:      subject,
		CourseNumber: number,
		Section:      strings.TrimSpace(r.Section),
		Title:        strings.TrimSpace(r.Title),
		Credits:      credits,
		Meetings:     []models.Meeting{},
		Enrollment: models.Enrollment{
			Current:         counts[0],
			Maximum:         counts[1],
			WaitlistCurrent: counts[2],
			WaitlistMaximum: counts[3],
		},
		DeliveryMethod: strings.TrimSpace(r.DeliveryMethod),
		Campus:         strings.TrimSpace(r.Campus),
	}
	name, email := strings.TrimSpace(r.InstructorName), strings.ToLower(strings.TrimSpace(r.InstructorEmail))
	if name != "" || email != "" {
		course.Instructor = &models.Instructor{DisplayName: name, Email: email}
	}
	return course, nil
}

// meeting returns false for rows without days, which describe unscheduled sections.
func (r CourseRow) meeting() (models.Meeting, bool, error) {
	rawDays := strings.TrimSpace(r.Days)
	if rawDays == "" {
		return models.Meeting{}, false, nil
	}
	days := models.ParseDayLetters(rawDays)
	if len(days) == 0 {
		return models.Meeting{}, false, fmt.Errorf("days %q has no weekday letters", rawDays)
	}
	start, err := ParseClock(r.Start)
	if err != nil {
		return models.Meeting{}, false, fmt.Errorf("start: %w", err)
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return models.Meeting{}, false, fmt.Errorf("end: %w", err)
	}
	if start >= end {
		return models.Meeting{}, false, fmt.Errorf("start %s is not before end %s", r.Start, r.End)
	}
	return models.Meeting{
		Days:         days,
		StartMinutes: start,
		EndMinutes:   end,
		Building:     strings.TrimSpace(r.Building),
		Room:         strings.TrimSpace(r.Room),
		Type:         models.ParseMeetingType(r.MeetingType),
	}, true, nil
}

// ParseClock converts a 24h "HH:MM" (or "HHMM") value into minutes after midnight.
func ParseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	hh, mm, found := strings.Cut(raw, ":")
	if !found {
		if len(raw) != 4 {
			return 0, fmt.Errorf("invalid time %q", raw)
		}
		hh, mm = raw[:2], raw[2:]
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return h*60 + m, nil
}

func parseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func rowError(line int, msg string) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, line, msg)
}
