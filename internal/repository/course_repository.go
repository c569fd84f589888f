package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/jdoner02/cyber-department-schedule-sub000/internal/models"
)

const courseColumns = `crn, term, subject, course_number, section, title, credits, instructor_name, instructor_email,
meetings, enrollment_current, enrollment_max, waitlist_current, waitlist_max, delivery_method, campus, updated_at`

// CourseRepository persists term course sections. Meetings are stored as a JSONB array.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

type courseRecord struct {
	CRN               string         `db:"crn"`
	Term              string         `db:"term"`
	Subject           string         `db:"subject"`
	CourseNumber      string         `db:"course_number"`
	Section           string         `db:"section"`
	Title             string         `db:"title"`
	Credits           float64        `db:"credits"`
	InstructorName    sql.NullString `db:"instructor_name"`
	InstructorEmail   sql.NullString `db:"instructor_email"`
	Meetings          types.JSONText `db:"meetings"`
	EnrollmentCurrent int            `db:"enrollment_current"`
	EnrollmentMax     int            `db:"enrollment_max"`
	WaitlistCurrent   int            `db:"waitlist_current"`
	WaitlistMax       int            `db:"waitlist_max"`
	DeliveryMethod    string         `db:"delivery_method"`
	Campus            string         `db:"campus"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func newCourseRecord(c *models.Course, now time.Time) (courseRecord, error) {
	meetings := c.Meetings
	if meetings == nil {
		meetings = []models.Meeting{}
	}
	raw, err := json.Marshal(meetings)
	if err != nil {
		return courseRecord{}, fmt.Errorf("marshal meetings for %s: %w", c.CRN, err)
	}
	rec := courseRecord{
		CRN:               c.CRN,
		Term:              c.Term,
		Subject:           c.Subject,
		CourseNumber:      c.CourseNumber,
		Section:           c.Section,
		Title:             c.Title,
		Credits:           c.Credits,
		Meetings:          types.JSONText(raw),
		EnrollmentCurrent: c.Enrollment.Current,
		EnrollmentMax:     c.Enrollment.Maximum,
		WaitlistCurrent:   c.Enrollment.WaitlistCurrent,
		WaitlistMax:       c.Enrollment.WaitlistMaximum,
		DeliveryMethod:    c.DeliveryMethod,
		Campus:            c.Campus,
		UpdatedAt:         now,
	}
	if c.Instructor != nil {
		rec.InstructorName = sql.NullString{String: c.Instructor.DisplayName, Valid: true}
		rec.InstructorEmail = sql.NullString{String: c.Instructor.Email, Valid: true}
	}
	return rec, nil
}

func (r courseRecord) toModel() (*models.Course, error) {
	course := &models.Course{
		CRN:          r.CRN,
		Term:         r.Term,
		Subject:      r.Subject,
		CourseNumber: r.CourseNumber,
		Section:      r.Section,
		Title:        r.Title,
		Credits:      r.Credits,
		Meetings:     []models.Meeting{},
		Enrollment: models.Enrollment{
			Current:         r.EnrollmentCurrent,
			Maximum:         r.EnrollmentMax,
			WaitlistCurrent: r.WaitlistCurrent,
			WaitlistMaximum: r.WaitlistMax,
		},
		DeliveryMethod: r.DeliveryMethod,
		Campus:         r.Campus,
	}
	if len(r.Meetings) > 0 {
		if err := r.Meetings.Unmarshal(&course.Meetings); err != nil {
			return nil, fmt.Errorf("decode meetings for %s: %w", r.CRN, err)
		}
	}
	if r.InstructorName.Valid || r.InstructorEmail.Valid {
		course.Instructor = &models.Instructor{DisplayName: r.InstructorName.String, Email: r.InstructorEmail.String}
	}
	return course, nil
}

func toCourses(records []courseRecord) ([]*models.Course, error) {
	courses := make([]*models.Course, 0, len(records))
	for _, rec := range records {
		c, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// ListByTerm returns the term's sections ordered by subject, number and section.
func (r *CourseRepository) ListByTerm(ctx context.Context, term string) ([]*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE term = $1 ORDER BY subject, course_number, section, crn`
	var records []courseRecord
	if err := r.db.SelectContext(ctx, &records, query, term); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return toCourses(records)
}

// FindByCRNs loads the listed sections of a term. Unknown CRNs are silently absent.
func (r *CourseRepository) FindByCRNs(ctx context.Context, term string, crns []string) ([]*models.Course, error) {
	if len(crns) == 0 {
		return []*models.Course{}, nil
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE term = $1 AND crn = ANY($2) ORDER BY subject, course_number, section, crn`
	var records []courseRecord
	if err := r.db.SelectContext(ctx, &records, query, term, pq.Array(crns)); err != nil {
		return nil, fmt.Errorf("find courses by crn: %w", err)
	}
	return toCourses(records)
}

// ListTerms returns the distinct terms with stored sections, newest first.
func (r *CourseRepository) ListTerms(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT term FROM courses ORDER BY term DESC`
	var terms []string
	if err := r.db.SelectContext(ctx, &terms, query); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// UpsertBatch inserts or replaces every course in a single transaction.
func (r *CourseRepository) UpsertBatch(ctx context.Context, courses []*models.Course) (int, error) {
	if len(courses) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin course upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `
INSERT INTO courses (crn, term, subject, course_number, section, title, credits, instructor_name, instructor_email,
	meetings, enrollment_current, enrollment_max, waitlist_current, waitlist_max, delivery_method, campus, updated_at)
VALUES (:crn, :term, :subject, :course_number, :section, :title, :credits, :instructor_name, :instructor_email,
	:meetings, :enrollment_current, :enrollment_max, :waitlist_current, :waitlist_max, :delivery_method, :campus, :updated_at)
ON CONFLICT (term, crn) DO UPDATE SET
	subject = EXCLUDED.subject,
	course_number = EXCLUDED.course_number,
	section = EXCLUDED.section,
	title = EXCLUDED.title,
	credits = EXCLUDED.credits,
	instructor_name = EXCLUDED.instructor_name,
	instructor_email = EXCLUDED.instructor_email,
	meetings = EXCLUDED.meetings,
	enrollment_current = EXCLUDED.enrollment_current,
	enrollment_max = EXCLUDED.enrollment_max,
	waitlist_current = EXCLUDED.waitlist_current,
	waitlist_max = EXCLUDED.waitlist_max,
	delivery_method = EXCLUDED.delivery_method,
	campus = EXCLUDED.campus,
	updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for _, c := range courses {
		rec, err := newCourseRecord(c, now)
		if err != nil {
			return 0, err
		}
		if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
			return 0, fmt.Errorf("upsert course %s: %w", c.CRN, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit course upsert: %w", err)
	}
	return len(courses), nil
}
