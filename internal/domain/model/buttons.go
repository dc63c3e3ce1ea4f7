package model

// Константы для кнопок. Привязаны к названиям обработчиков.
// Не следует добавлять/изменять константы без изменения логики в обработчике start
const (
	ViewCoursesKey    = "view_courses"
	MyScheduleKey     = "my_schedule"
	MyPaymentsKey     = "my_payments"
	MyCertificatesKey = "my_certificates"
	TakeTestKey       = "take_test"
)
