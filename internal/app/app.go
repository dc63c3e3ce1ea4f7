package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/http/active_sessions_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/http/generate_test_link_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/http/link_student_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/certificates_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/courses_next_page_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/courses_prev_page_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/enroll_course_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/courses/view_courses_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/payments_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/schedule_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/start_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/answer_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/nav_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/start_test_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/handlers/telegram/take_test/submit_handler"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/app/middleware"
	linksRepo "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/links/repository"
	linksService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/links/service"
	msgRepo "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/messages/repository"
	msgService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/messages/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	rolesRepo "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/roles/repository"
	rolesService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/roles/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/session"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/repository"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/infra/config"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/infra/poller"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/infra/timer"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/schoolapi"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"
)

type LocalStatesHelpers struct {
	pageState map[int64]int
	testState map[int64]int
}

type Services struct {
	userService    *service.UserService
	messageService *msgService.MessageService
	roleService    *rolesService.RoleService
	linkService    *linksService.LinkService
}

type App struct {
	config *config.Config
	bot    *telebot.Bot
	db     *pgxpool.Pool
	server *http.Server

	api      *schoolapi.Client
	sessions *session.Registry

	Services
	states LocalStatesHelpers
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	db, err := InitDatabase(configImpl)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		config:   configImpl,
		db:       db,
		api:      schoolapi.NewClient(configImpl.SchoolAPI.BaseURL, time.Duration(configImpl.SchoolAPI.TimeoutSeconds)*time.Second),
		sessions: session.NewRegistry(),
		states: LocalStatesHelpers{
			pageState: make(map[int64]int),
			testState: make(map[int64]int),
		},
	}

	app.initServices()

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() {
	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(app.db)
	messageRepo := msgRepo.NewMessageRepository(app.db)
	rolePermissionRepo := rolesRepo.NewRolePermissionRepository(app.db)
	linkRepo := linksRepo.NewLinkRepository(app.db)

	// Инициализация сервисов
	app.userService = service.NewUserService(userRepo, rolePermissionRepo)
	app.messageService = msgService.NewMessageService(messageRepo)
	app.roleService = rolesService.NewRoleService(rolePermissionRepo)
	app.linkService = linksService.NewLinkService(linkRepo)
}

// ListenAndServeTelegram запускает сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: poller.NewPoller(app.config),
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bot.Use(middleware.Recover())
	app.bot.Use(middleware.AutoRespond())
	app.bot.Use(middleware.Logger())
	if app.config.TelegramBot.Debug {
		app.bot.Use(middleware.DebugUserActions(true, app.sessions))
	}

	app.bootstrapHandlersTelegram()

	go app.bot.Start()

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	updater := timer.NewTimerUpdater(app.bot)

	app.bot.Handle("/start", start_handler.NewStartHandler(
		app.userService, app.messageService, app.roleService, app.linkService, app.states.testState).GetHandlerFunc())

	// Экраны каталога курсов с пагинацией и записью на курс
	app.bot.Handle(&telebot.InlineButton{Unique: model.ViewCoursesKey},
		view_courses_handler.NewViewCoursesHandler(app.api, app.states.pageState).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "courses_next_page"},
		courses_next_page_handler.NewCoursesNextPageHandler(app.api, app.states.pageState).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "courses_prev_page"},
		courses_prev_page_handler.NewCoursesPrevPageHandler(app.api, app.states.pageState).GetHandlerFunc())

	// Личные экраны студента
	app.bot.Handle(&telebot.InlineButton{Unique: model.MyScheduleKey},
		schedule_handler.NewScheduleHandler(app.api, app.userService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.MyPaymentsKey},
		payments_handler.NewPaymentsHandler(app.api, app.userService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.MyCertificatesKey},
		certificates_handler.NewCertificatesHandler(app.api, app.userService).GetHandlerFunc())

	// Прохождение теста: завершение создаётся первым, чтобы таймер мог выполнить автоотправку
	submitHandler := submit_handler.NewSubmitHandler(app.bot, app.sessions, app.userService)
	answerHandler := answer_handler.NewAnswerHandler(app.sessions)
	navHandler := nav_handler.NewNavHandler(app.sessions)
	enrollHandler := enroll_course_handler.NewEnrollCourseHandler(app.api, app.userService)

	app.bot.Handle(&telebot.InlineButton{Unique: model.TakeTestKey}, start_test_handler.NewStartTestHandler(
		app.bot, app.api, app.userService, app.messageService, app.sessions,
		updater, submitHandler, app.states.testState).GetHandlerFunc())

	// Динамические callback-кнопки маршрутизируются по префиксу
	app.bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data // Получаем данные callback

		// Очищаем данные от нестандартных символов
		cleanedData := strings.TrimSpace(data)
		cleanedData = strings.ReplaceAll(cleanedData, "\f", "")  // Удаляем символ form feed
		cleanedData = strings.ReplaceAll(cleanedData, "\\f", "") // Удаляем экранированный символ, если он есть

		switch {
		case strings.HasPrefix(cleanedData, "answer_"):
			return answerHandler.Handle(c)
		case strings.HasPrefix(cleanedData, "nav_"):
			return navHandler.Handle(c)
		case strings.HasPrefix(cleanedData, "submit_"):
			return submitHandler.Handle(c)
		case strings.HasPrefix(cleanedData, "enroll_"):
			return enrollHandler.Handle(c)
		}

		return nil
	})
}

// ListenAndServeHTTP запускает HTTP сервер для персонала автошколы
func (app *App) ListenAndServeHTTP() error {
	mx := http.NewServeMux()

	mx.Handle("GET /staff/active_sessions", active_sessions_handler.NewActiveSessionsHandler(app.sessions))
	mx.Handle("POST /staff/generate_test_link", generate_test_link_handler.NewGenerateTestLinkHandler(
		app.userService, app.roleService, app.linkService,
		app.config.TelegramBot.Username, app.config.Staff.BaseURL))
	mx.Handle("POST /staff/link_student", link_student_handler.NewLinkStudentHandler(app.userService))
	mx.Handle("GET /qr/", http.StripPrefix("/qr/", http.FileServer(http.Dir("qr"))))

	app.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", app.config.Server.Host, app.config.Server.Port),
		Handler: mx,
	}

	return app.server.ListenAndServe()
}

// ListenAndServe запускает оба сервера (Telegram и HTTP)
func (app *App) ListenAndServe() error {
	// Запускаем Telegram сервер
	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	// Запускаем HTTP сервер
	if err := app.ListenAndServeHTTP(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}
