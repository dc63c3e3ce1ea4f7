package link_student_handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
)

// fakeLinker запоминает вызовы привязки вместо похода в базу
type fakeLinker struct {
	users  map[string]*model.User
	linked map[int]int
}

func (f *fakeLinker) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	return f.users[username], nil
}

func (f *fakeLinker) LinkStudent(_ context.Context, userID, studentID int) error {
	f.linked[userID] = studentID
	return nil
}

func newFakeLinker() *fakeLinker {
	return &fakeLinker{
		users: map[string]*model.User{
			"ivanov": {ID: 7, TelegramUsername: "ivanov"},
		},
		linked: make(map[int]int),
	}
}

func TestLinkStudent_Success(t *testing.T) {
	// 1. Существующий пользователь привязывается к студенту.
	linker := newFakeLinker()
	handler := NewLinkStudentHandler(linker)

	req := httptest.NewRequest(http.MethodPost, "/staff/link_student",
		strings.NewReader(`{"username":"ivanov","student_id":42}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался статус 200, получен %d: %s", rec.Code, rec.Body.String())
	}
	if linker.linked[7] != 42 {
		t.Errorf("пользователь 7 не привязан к студенту 42: %v", linker.linked)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if resp["user_id"].(float64) != 7 {
		t.Errorf("неожиданный user_id в ответе: %v", resp["user_id"])
	}
}

func TestLinkStudent_UnknownUser(t *testing.T) {
	// 2. Неизвестный пользователь — 404, привязки нет.
	linker := newFakeLinker()
	handler := NewLinkStudentHandler(linker)

	req := httptest.NewRequest(http.MethodPost, "/staff/link_student",
		strings.NewReader(`{"username":"ghost","student_id":42}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("ожидался статус 404, получен %d", rec.Code)
	}
	if len(linker.linked) != 0 {
		t.Errorf("привязка выполнена для несуществующего пользователя: %v", linker.linked)
	}
}

func TestLinkStudent_InvalidRequest(t *testing.T) {
	// 3. Запрос без student_id отклоняется валидатором.
	linker := newFakeLinker()
	handler := NewLinkStudentHandler(linker)

	req := httptest.NewRequest(http.MethodPost, "/staff/link_student",
		strings.NewReader(`{"username":"ivanov"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ожидался статус 400, получен %d", rec.Code)
	}
	if len(linker.linked) != 0 {
		t.Errorf("привязка выполнена по невалидному запросу: %v", linker.linked)
	}
}
