package courseview

import (
	"fmt"
	"strings"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"gopkg.in/telebot.v4"
)

// PageSize количество курсов на одной странице каталога
const PageSize = 5

// Render формирует текст страницы каталога курсов и клавиатуру:
// кнопка записи на каждый курс и кнопки пагинации.
func Render(coursesPage *schoolapi.CoursesPage, page int) (string, *telebot.ReplyMarkup) {
	totalPages := (coursesPage.Total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}

	var messageBuilder strings.Builder
	messageBuilder.WriteString(fmt.Sprintf("🚗 *Каталог курсов* (страница %d/%d)\n\n", page, totalPages))
	for _, course := range coursesPage.Courses {
		messageBuilder.WriteString(fmt.Sprintf("*%s* — категория %s\n%s\nДлительность: %d нед., стоимость: %s\n\n",
			course.CourseName, course.Category, course.Description, course.DurationWeeks, course.Price))
	}
	if len(coursesPage.Courses) == 0 {
		messageBuilder.WriteString("Курсы не найдены.")
	}

	markup := &telebot.ReplyMarkup{}
	rows := make([]telebot.Row, 0, len(coursesPage.Courses)+1)
	for _, course := range coursesPage.Courses {
		rows = append(rows, markup.Row(markup.Data(
			fmt.Sprintf("📝 Записаться: %s", course.CourseName),
			fmt.Sprintf("enroll_%d", course.ID),
		)))
	}
	rows = append(rows, markup.Row(
		markup.Data("⬅️", "courses_prev_page"),
		markup.Data("➡️", "courses_next_page"),
	))
	markup.Inline(rows...)

	return messageBuilder.String(), markup
}
