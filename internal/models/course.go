package models

import (
	"fmt"
	"strings"
)

// Day identifies a weekday a meeting recurs on.
type Day string

const (
	DayMonday    Day = "MONDAY"
	DayTuesday   Day = "TUESDAY"
	DayWednesday Day = "WEDNESDAY"
	DayThursday  Day = "THURSDAY"
	DayFriday    Day = "FRIDAY"
	DaySaturday  Day = "SATURDAY"
	DaySunday    Day = "SUNDAY"
)

// WeekDays lists days in calendar order.
var WeekDays = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

var dayLetters = map[Day]string{
	DayMonday:    "M",
	DayTuesday:   "T",
	DayWednesday: "W",
	DayThursday:  "R",
	DayFriday:    "F",
	DaySaturday:  "S",
	DaySunday:    "U",
}

// Letter returns the registrar single-letter code for the day (M T W R F S U).
func (d Day) Letter() string {
	return dayLetters[d]
}

// ParseDayLetters converts a registrar day string such as "MWF" or "TR" into days.
// Unknown letters are ignored.
func ParseDayLetters(raw string) []Day {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	days := make([]Day, 0, len(raw))
	seen := make(map[Day]bool, len(raw))
	for _, r := range raw {
		for _, day := range WeekDays {
			if dayLetters[day] == string(r) && !seen[day] {
				days = append(days, day)
				seen[day] = true
			}
		}
	}
	return days
}

// FormatDayLetters renders days back into the compact registrar form.
func FormatDayLetters(days []Day) string {
	var b strings.Builder
	for _, day := range days {
		b.WriteString(day.Letter())
	}
	return b.String()
}

// MeetingType classifies a meeting block.
type MeetingType string

const (
	MeetingTypeLecture    MeetingType = "LECTURE"
	MeetingTypeLab        MeetingType = "LAB"
	MeetingTypeDiscussion MeetingType = "DISCUSSION"
	MeetingTypeOther      MeetingType = "OTHER"
)

// ParseMeetingType maps registrar labels such as "Lecture", "LAB" or "lec" onto a MeetingType.
// Blank input is treated as a lecture.
func ParseMeetingType(raw string) MeetingType {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "LECTURE", "LEC", "CLASS":
		return MeetingTypeLecture
	case "LAB", "LABORATORY":
		return MeetingTypeLab
	case "DISCUSSION", "DIS", "DISC":
		return MeetingTypeDiscussion
	default:
		return MeetingTypeOther
	}
}

// Meeting is one recurring time block of a section. Minutes are counted from midnight
// and describe the half-open interval [StartMinutes, EndMinutes).
type Meeting struct {
	Days         []Day       `json:"days"`
	StartMinutes int         `json:"startMinutes"`
	EndMinutes   int         `json:"endMinutes"`
	Building     string      `json:"building,omitempty"`
	Room         string      `json:"room,omitempty"`
	Type         MeetingType `json:"type"`
}

// HasLocation reports whether both building and room are known.
func (m Meeting) HasLocation() bool {
	return m.Building != "" && m.Room != ""
}

// Location renders "BUILDING ROOM" or an empty string when unknown.
func (m Meeting) Location() string {
	if !m.HasLocation() {
		return ""
	}
	return m.Building + " " + m.Room
}

// Instructor teaching a section. Email is the identity.
type Instructor struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Enrollment holds seat counts for a section.
type Enrollment struct {
	Current         int `json:"current"`
	Maximum         int `json:"maximum"`
	WaitlistCurrent int `json:"waitlistCurrent"`
	WaitlistMaximum int `json:"waitlistMaximum"`
}

// Course is one offered section identified by its CRN.
type Course struct {
	CRN            string      `json:"crn"`
	Term           string      `json:"term"`
	Subject        string      `json:"subject"`
	CourseNumber   string      `json:"courseNumber"`
	Section        string      `json:"section"`
	Title          string      `json:"title"`
	Credits        float64     `json:"credits"`
	Meetings       []Meeting   `json:"meetings"`
	Instructor     *Instructor `json:"instructor,omitempty"`
	Enrollment     Enrollment  `json:"enrollment"`
	DeliveryMethod string      `json:"deliveryMethod"`
	Campus         string      `json:"campus"`
	HasConflicts   bool        `json:"hasConflicts"`
}

// Code renders "SUBJ NUMBER", e.g. "CSCD 427".
func (c *Course) Code() string {
	return fmt.Sprintf("%s %s", c.Subject, c.CourseNumber)
}

// IsScheduled reports whether the section has at least one meeting block.
func (c *Course) IsScheduled() bool {
	return len(c.Meetings) > 0
}

// InstructorName returns the instructor display name or "TBA".
func (c *Course) InstructorName() string {
	if c.Instructor == nil || c.Instructor.DisplayName == "" {
		return "TBA"
	}
	return c.Instructor.DisplayName
}

// InstructorEmail returns the instructor email or an empty string.
func (c *Course) InstructorEmail() string {
	if c.Instructor == nil {
		return ""
	}
	return c.Instructor.Email
}
