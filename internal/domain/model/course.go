package model

// Course представляет курс обучения из каталога автошколы.
type Course struct {
	ID            int    `json:"id"`
	CourseName    string `json:"course_name"`
	Description   string `json:"description"`
	Category      string `json:"category"` // категория прав, например "B"
	DurationWeeks int    `json:"duration_weeks"`
	Price         string `json:"price"`
}

// Enrollment представляет запись студента на курс.
type Enrollment struct {
	ID         int    `json:"id"`
	CourseID   int    `json:"course_id"`
	CourseName string `json:"course_name"`
	Status     string `json:"status"` // "pending", "active", "completed"
	EnrolledAt string `json:"enrolled_at"`
}
