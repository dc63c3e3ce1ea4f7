package model

import "time"

// Certificate представляет свидетельство об окончании курса.
// Выпуск и отзыв свидетельств выполняет бекенд автошколы.
type Certificate struct {
	ID         int       `json:"id"`
	CourseName string    `json:"course_name"`
	Number     string    `json:"number"`
	IssuedAt   time.Time `json:"issued_at"`
}
