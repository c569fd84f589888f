package scheduling

import "github.com/jdoner02/cyber-department-schedule-sub000/internal/models"

type courseOpt func(*models.Course)

func newCourse(crn, subject, number string, opts ...courseOpt) *models.Course {
	c := &models.Course{
		CRN:          crn,
		Term:         "202640",
		Subject:      subject,
		CourseNumber: number,
		Section:      "040",
		Title:        subject + " " + number,
		Credits:      5,
		Campus:       "Cheney",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func taughtBy(email string) courseOpt {
	return func(c *models.Course) {
		c.Instructor = &models.Instructor{DisplayName: email, Email: email}
	}
}

func meets(days string, start, end int) courseOpt {
	return func(c *models.Course) {
		c.Meetings = append(c.Meetings, models.Meeting{
			Days:         models.ParseDayLetters(days),
			StartMinutes: start,
			EndMinutes:   end,
			Type:         models.MeetingTypeLecture,
		})
	}
}

func meetsIn(days string, start, end int, building, room string) courseOpt {
	return func(c *models.Course) {
		c.Meetings = append(c.Meetings, models.Meeting{
			Days:         models.ParseDayLetters(days),
			StartMinutes: start,
			EndMinutes:   end,
			Building:     building,
			Room:         room,
			Type:         models.MeetingTypeLecture,
		})
	}
}

func enrolled(current, maximum int) courseOpt {
	return func(c *models.Course) {
		c.Enrollment = models.Enrollment{Current: current, Maximum: maximum}
	}
}

func crnsOf(groups []models.CourseGroup) []string {
	var crns []string
	for _, g := range groups {
		crns = append(crns, g.AllCRNs...)
	}
	return crns
}
