// Package schoolapi содержит HTTP-клиент бекенда автошколы.
// Бот не хранит данные автошколы у себя: каталог курсов, записи, расписание,
// платежи, свидетельства и проверка ответов целиком живут на бекенде,
// клиент только вызывает его REST-эндпоинты.
package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
)

// Client — клиент REST API автошколы.
type Client struct {
	baseURL    string
	httpClient *http.Client // переиспользуется между вызовами
}

// NewClient создаёт клиент бекенда с заданным базовым URL и таймаутом запросов.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError описывает ошибку, возвращённую бекендом автошколы.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("бекенд вернул статус %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("бекенд вернул статус %d", e.StatusCode)
}

// TestInstance представляет попытку, созданную бекендом при старте теста.
type TestInstance struct {
	ID        string    `json:"id"`
	TestID    int       `json:"testId"`
	StartedAt time.Time `json:"startedAt"`
}

type ChoiceDTO struct {
	Label string `json:"label"`
}

type QuestionDTO struct {
	ID           string      `json:"id"`
	QuestionText string      `json:"questionText"`
	Type         string      `json:"type"`
	Choices      []ChoiceDTO `json:"choices"`
	OrderIndex   int         `json:"orderIndex"`
}

// StartResponse — ответ бекенда на старт теста или экзамена.
// TimeLimit задаётся в минутах; null означает тест без лимита времени.
type StartResponse struct {
	TestInstance TestInstance  `json:"testInstance"`
	Questions    []QuestionDTO `json:"questions"`
	TimeLimit    *int          `json:"timeLimit"`
}

// TimeLimitMinutes возвращает лимит времени в минутах или 0 для теста без лимита.
func (r *StartResponse) TimeLimitMinutes() int {
	if r.TimeLimit == nil {
		return 0
	}
	return *r.TimeLimit
}

// ModelQuestions преобразует вопросы ответа бекенда в доменные.
func (r *StartResponse) ModelQuestions() []model.TestQuestion {
	questions := make([]model.TestQuestion, 0, len(r.Questions))
	for _, q := range r.Questions {
		choices := make([]model.Choice, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, model.Choice{Label: c.Label})
		}
		questions = append(questions, model.TestQuestion{
			ID:         q.ID,
			Text:       q.QuestionText,
			Kind:       model.QuestionKind(q.Type),
			Choices:    choices,
			OrderIndex: q.OrderIndex,
		})
	}
	return questions
}

// StartTest создаёт попытку прохождения теста.
func (c *Client) StartTest(ctx context.Context, testID int) (*StartResponse, error) {
	var resp StartResponse
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/tests/%d/start", testID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to start test %d: %w", testID, err)
	}
	return &resp, nil
}

// StartAssessment создаёт попытку прохождения итогового экзамена.
func (c *Client) StartAssessment(ctx context.Context, assessmentID int) (*StartResponse, error) {
	var resp StartResponse
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/assessments/%d/start", assessmentID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to start assessment %d: %w", assessmentID, err)
	}
	return &resp, nil
}

type submitRequest struct {
	Answers map[string]any `json:"answers"`
}

// SubmitTest отправляет срез ответов по попытке. Значения карты: строка для
// одиночного выбора, срез строк для множественного.
func (c *Client) SubmitTest(ctx context.Context, instanceID string, answers map[string]any) (model.TestResult, error) {
	var result model.TestResult
	body := submitRequest{Answers: answers}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/test-instances/%s/submit", instanceID), body, &result); err != nil {
		return model.TestResult{}, fmt.Errorf("failed to submit test instance %s: %w", instanceID, err)
	}
	return result, nil
}

// CoursesPage — страница каталога курсов.
type CoursesPage struct {
	Courses []model.Course `json:"courses"`
	Total   int            `json:"total"`
}

// GetCourses возвращает страницу каталога курсов.
func (c *Client) GetCourses(ctx context.Context, page, pageSize int) (*CoursesPage, error) {
	var resp CoursesPage
	path := fmt.Sprintf("/api/courses?page=%d&pageSize=%d", page, pageSize)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get courses: %w", err)
	}
	return &resp, nil
}

// GetCourse возвращает курс по идентификатору.
func (c *Client) GetCourse(ctx context.Context, courseID int) (*model.Course, error) {
	var course model.Course
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/courses/%d", courseID), nil, &course); err != nil {
		return nil, fmt.Errorf("failed to get course %d: %w", courseID, err)
	}
	return &course, nil
}

type enrollRequest struct {
	StudentID int `json:"studentId"`
}

// EnrollCourse записывает студента на курс.
func (c *Client) EnrollCourse(ctx context.Context, courseID, studentID int) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	body := enrollRequest{StudentID: studentID}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), body, &enrollment); err != nil {
		return nil, fmt.Errorf("failed to enroll in course %d: %w", courseID, err)
	}
	return &enrollment, nil
}

// GetSchedule возвращает расписание занятий студента.
func (c *Client) GetSchedule(ctx context.Context, studentID int) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d/schedule", studentID), nil, &lessons); err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return lessons, nil
}

// GetPayments возвращает платежи студента.
func (c *Client) GetPayments(ctx context.Context, studentID int) ([]model.Payment, error) {
	var payments []model.Payment
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d/payments", studentID), nil, &payments); err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, nil
}

// GetCertificates возвращает свидетельства студента.
func (c *Client) GetCertificates(ctx context.Context, studentID int) ([]model.Certificate, error) {
	var certificates []model.Certificate
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d/certificates", studentID), nil, &certificates); err != nil {
		return nil, fmt.Errorf("failed to get certificates: %w", err)
	}
	return certificates, nil
}

// GetAvailableTests возвращает тесты, назначенные студенту.
func (c *Client) GetAvailableTests(ctx context.Context, studentID int) ([]model.Test, error) {
	var tests []model.Test
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/students/%d/tests", studentID), nil, &tests); err != nil {
		return nil, fmt.Errorf("failed to get available tests: %w", err)
	}
	return tests, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

// doJSON выполняет запрос к бекенду и разбирает JSON-ответ в out.
// Статусы 4xx/5xx превращаются в *APIError с сообщением бекенда, если оно есть.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
