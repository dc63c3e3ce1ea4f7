package generate_test_link_handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	linksService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/links/service"
	rolesService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/roles/service"
	usersService "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/service"
	httpError "github.com/Fedutin22/replit-driving-school-sub001/pkg/http"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

// qrDir каталог, из которого HTTP-сервер раздаёт сгенерированные QR-коды
const qrDir = "qr"

// GenerateTestLinkHandler структура для обработчика
type GenerateTestLinkHandler struct {
	userService *usersService.UserService
	roleService *rolesService.RoleService
	linkService *linksService.LinkService
	validate    *validator.Validate
	botUsername string
	baseURL     string
}

// NewGenerateTestLinkHandler создает новый экземпляр обработчика
func NewGenerateTestLinkHandler(
	userService *usersService.UserService,
	roleService *rolesService.RoleService,
	linkService *linksService.LinkService,
	botUsername, baseURL string,
) *GenerateTestLinkHandler {
	return &GenerateTestLinkHandler{
		userService: userService,
		roleService: roleService,
		linkService: linkService,
		validate:    validator.New(),
		botUsername: botUsername,
		baseURL:     baseURL,
	}
}

// ServeHTTP метод для обработки запроса
func (h *GenerateTestLinkHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpError.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req GenerateTestLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Проверяем, что username и test_id указаны
	if err := h.validate.Struct(req); err != nil {
		httpError.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Проверяем, что пользователь существует
	ctx := r.Context()
	user, err := h.userService.GetUserByUsername(ctx, req.Username)
	if err != nil || user == nil {
		httpError.ErrorResponse(w, http.StatusUnauthorized, "User not found")
		return
	}

	// Проверяем, что пользователь имеет разрешение generate_test_link
	permissions, err := h.roleService.GetPermissionsForUser(ctx, user.RoleID)
	if err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve permissions")
		return
	}

	hasGeneratePermission := false
	for _, perm := range permissions {
		if perm == "generate_test_link" {
			hasGeneratePermission = true
			break
		}
	}

	if !hasGeneratePermission {
		httpError.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized: user does not have permission to generate test links")
		return
	}

	// Генерируем уникальный токен
	token := uuid.New().String()

	// Сохраняем токен в базе
	if _, err := h.linkService.SaveTestLink(ctx, req.TestID, token); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to save test link")
		return
	}

	// Формируем deep-link для перехода в бот
	link := fmt.Sprintf("https://t.me/%s?start=test_%d_%s", h.botUsername, req.TestID, token)

	// Генерируем QR-код в каталог, который раздаёт HTTP-сервер
	qrCodeFilename := fmt.Sprintf("test_%d_%s.png", req.TestID, token)
	if err := os.MkdirAll(qrDir, 0o755); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to prepare QR code directory")
		return
	}
	if err := qrcode.WriteFile(link, qrcode.Medium, 256, filepath.Join(qrDir, qrCodeFilename)); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate QR code: %v", err))
		return
	}

	// Формируем URL для скачивания QR-кода
	qrCodeURL := fmt.Sprintf("%s/qr/%s", h.baseURL, qrCodeFilename)

	// Отправляем успешный ответ
	response := GenerateTestLinkResponse{
		Link:      link,
		QRCodeURL: qrCodeURL,
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		httpError.ErrorResponse(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
