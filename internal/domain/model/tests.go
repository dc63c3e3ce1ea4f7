package model

// Test представляет теоретический тест или экзамен из каталога автошколы.
type Test struct {
	ID            int    `json:"id"`
	TestName      string `json:"test_name"`
	TestType      string `json:"test_type"` // "test" или "assessment"
	Duration      int    `json:"duration"`  // лимит времени в минутах; 0 — без лимита
	QuestionCount int    `json:"question_count"`
}

// TestResult представляет итог попытки, рассчитанный бекендом.
type TestResult struct {
	Passed     bool    `json:"passed"`
	Percentage float64 `json:"percentage"`
}
