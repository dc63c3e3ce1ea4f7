package model

// QuestionKind определяет тип вопроса теста.
type QuestionKind string

const (
	// KindSingle — вопрос с одним вариантом ответа.
	KindSingle QuestionKind = "single"
	// KindMultiple — вопрос с несколькими вариантами ответа.
	KindMultiple QuestionKind = "multiple"
)

// Choice представляет вариант ответа на вопрос.
// Признак правильности намеренно отсутствует: проверкой занимается бекенд автошколы.
type Choice struct {
	Label string `json:"label"`
}

// TestQuestion представляет вопрос теста, полученный от бекенда при старте попытки.
type TestQuestion struct {
	ID         string       `json:"id"`
	Text       string       `json:"question_text"`
	Kind       QuestionKind `json:"type"`
	Choices    []Choice     `json:"choices"`
	OrderIndex int          `json:"order_index"`
}
