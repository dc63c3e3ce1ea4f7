package model

import "time"

// Lesson представляет занятие в расписании студента.
type Lesson struct {
	ID              int       `json:"id"`
	CourseName      string    `json:"course_name"`
	InstructorName  string    `json:"instructor_name"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	Attended        *bool     `json:"attended,omitempty"`
}
