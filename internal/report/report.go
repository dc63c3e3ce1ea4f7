package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/jung-kurt/gofpdf"
)

// ReportData содержит данные для формирования отчёта по пройденному тесту.
// Правильные ответы клиенту не известны: в отчёт попадают только выбранные
// варианты и итоговый вердикт бекенда.
type ReportData struct {
	UserID            int64
	TelegramFirstName string
	TelegramUsername  string
	TestName          string
	Passed            bool
	Percentage        float64
	Questions         []model.TestQuestion
	Answers           map[string][]string
}

// GeneratePDFReport генерирует PDF‑отчёт по данным ReportData и сохраняет его в файл.
// Отчёт формируется в виде непрерывного текста с переносами (без таблицы).
// Возвращает имя файла (например, "ivanov.pdf") и ошибку, если она произошла.
func GeneratePDFReport(r ReportData) (string, error) {
	// Создаем новый PDF документ формата A4.
	pdf := gofpdf.New("P", "mm", "A4", "")

	// Регистрируем UTF-8 шрифты, поддерживающие кириллицу.
	pdf.AddUTF8Font("DejaVu", "", "internal/report/fonts/DejaVuSans.ttf")
	pdf.AddUTF8Font("DejaVu", "B", "internal/report/fonts/DejaVuSans-Bold.ttf")

	// Устанавливаем основной шрифт.
	pdf.SetFont("DejaVu", "", 14)
	pdf.AddPage()

	// Заголовок отчёта.
	pdf.SetFont("DejaVu", "B", 16)
	pdf.MultiCell(0, 10, "Отчет по тестированию", "", "L", false)
	pdf.Ln(4)

	verdict := "не сдан"
	if r.Passed {
		verdict = "сдан"
	}

	// Информация о пользователе и итог попытки.
	pdf.SetFont("DejaVu", "", 12)
	info := fmt.Sprintf("Имя: %s\nUsername: %s\nUser ID: %d\nТест: %s\nРезультат: %.1f%%, тест %s\n",
		r.TelegramFirstName, r.TelegramUsername, r.UserID, r.TestName, r.Percentage, verdict)
	pdf.MultiCell(0, 8, info, "", "L", false)
	pdf.Ln(4)

	// Для каждого вопроса выводим его текст и выбранные варианты.
	for i, q := range r.Questions {
		qHeader := fmt.Sprintf("Вопрос %d:", i+1)
		pdf.SetFont("DejaVu", "B", 12)
		pdf.MultiCell(0, 8, qHeader, "", "L", false)

		// Выводим текст вопроса, автоматически перенося его.
		pdf.SetFont("DejaVu", "", 12)
		pdf.MultiCell(0, 8, q.Text, "", "L", false)
		pdf.Ln(2)

		selected := r.Answers[q.ID]
		answerLine := "Ваш ответ: —\n"
		if len(selected) > 0 {
			answerLine = fmt.Sprintf("Ваш ответ: %s\n", strings.Join(selected, ", "))
		}
		pdf.MultiCell(0, 8, answerLine, "", "L", false)
		pdf.Ln(4)
	}

	// Формируем имя файла.
	filename := ""
	if r.TelegramUsername != "" {
		filename = r.TelegramUsername + ".pdf"
	} else {
		filename = "report_" + strconv.FormatInt(r.UserID, 10) + ".pdf"
	}

	if err := pdf.OutputFileAndClose(filename); err != nil {
		return "", err
	}
	return filename, nil
}
