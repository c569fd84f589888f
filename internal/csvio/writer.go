package csvio

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

// ConflictRecord is one line of a conflict report.
type ConflictRecord struct {
	Type         string `csv:"type"`
	Day          string `csv:"day"`
	OverlapStart string `csv:"overlap_start"`
	OverlapEnd   string `csv:"overlap_end"`
	CRN1         string `csv:"crn_1"`
	Course1      string `csv:"course_1"`
	CRN2         string `csv:"crn_2"`
	Course2      string `csv:"course_2"`
	Instructor   string `csv:"instructor"`
	Location     string `csv:"location"`
	Description  string `csv:"description"`
}

// ConflictRecords flattens conflicts into report rows, preserving order.
func ConflictRecords(conflicts []models.Conflict) []ConflictRecord {
	records := make([]ConflictRecord, 0, len(conflicts))
	for _, c := range conflicts {
		rec := ConflictRecord{
			Type:         string(c.Type),
			Day:          string(c.Day),
			OverlapStart: models.FormatMinutes(c.OverlapStart),
			OverlapEnd:   models.FormatMinutes(c.OverlapEnd),
			Location:     c.Location,
			Description:  c.Description,
		}
		if c.Course1 != nil {
			rec.CRN1, rec.Course1 = c.Course1.CRN, c.Course1.Code()
			if c.Type == models.ConflictTypeInstructor {
				rec.Instructor = c.Course1.InstructorName()
			}
		}
		if c.Course2 != nil {
			rec.CRN2, rec.Course2 = c.Course2.CRN, c.Course2.Code()
		}
		records = append(records, rec)
	}
	return records
}

// WriteConflicts writes a conflict report with a header line.
func WriteConflicts(w io.Writer, conflicts []models.Conflict) error {
	if err := gocsv.Marshal(ConflictRecords(conflicts), w); err != nil {
		return fmt.Errorf("write conflicts csv: %w", err)
	}
	return nil
}

// CourseRows renders courses back into canonical rows, one per meeting. Sections without
// meetings produce a single row with blank days and times.
func CourseRows(courses []*models.Course) []CourseRow {
	rows := make([]CourseRow, 0, len(courses))
	for _, c := range courses {
		base := CourseRow{
			CRN:              c.CRN,
			Term:             c.Term,
			Subject:          c.Subject,
			CourseNumber:     c.CourseNumber,
			Section:          c.Section,
			Title:            c.Title,
			Credits:          strconv.FormatFloat(c.Credits, 'f', -1, 64),
			InstructorEmail:  c.InstructorEmail(),
			Enrollment:       strconv.Itoa(c.Enrollment.Current),
			Capacity:         strconv.Itoa(c.Enrollment.Maximum),
			Waitlist:         strconv.Itoa(c.Enrollment.WaitlistCurrent),
			WaitlistCapacity: strconv.Itoa(c.Enrollment.WaitlistMaximum),
			DeliveryMethod:   c.DeliveryMethod,
			Campus:           c.Campus,
		}
		if c.Instructor != nil {
			base.InstructorName = c.Instructor.DisplayName
		}
		if len(c.Meetings) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, m := range c.Meetings {
			row := base
			row.Days = models.FormatDayLetters(m.Days)
			row.Start = models.FormatMinutes(m.StartMinutes)
			row.End = models.FormatMinutes(m.EndMinutes)
			row.Building = m.Building
			row.Room = m.Room
			row.MeetingType = string(m.Type)
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteCourses writes courses in the canonical import format.
func WriteCourses(w io.Writer, courses []*models.Course) error {
	if err := gocsv.Marshal(CourseRows(courses), w); err != nil {
		return fmt.Errorf("write courses csv: %w", err)
	}
	return nil
}
