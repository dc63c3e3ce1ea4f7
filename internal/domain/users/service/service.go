package service

import (
	"context"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	rolesRepo "github.com/Fedutin22/replit-driving-school-sub001/internal/domain/roles/repository"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/users/repository"
)

// UserService содержит логику бизнес-операций для пользователей
type UserService struct {
	userRepo           *repository.UserRepository
	rolePermissionRepo *rolesRepo.RolePermissionRepository
}

// NewUserService создает новый экземпляр UserService
func NewUserService(userRepo *repository.UserRepository, rolePermissionRepo *rolesRepo.RolePermissionRepository) *UserService {
	return &UserService{userRepo: userRepo, rolePermissionRepo: rolePermissionRepo}
}

// GetOrCreateUser возвращает ID пользователя, если он существует, или создает нового
func (s *UserService) GetOrCreateUser(ctx context.Context, username string, telegramID int64, telegramFirstName string, roleName string) (int, error) {
	// Получаем ID роли по имени
	role, err := s.rolePermissionRepo.GetRoleByRoleName(ctx, roleName)
	if err != nil {
		return 0, fmt.Errorf("failed to get role by name: %w", err)
	}

	// Проверяем, существует ли пользователь
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}

	// Если пользователь существует, возвращаем его ID
	if user != nil {
		return user.ID, nil
	}

	// Если пользователь не существует, создаем нового с RoleID
	userID, err := s.userRepo.CreateUser(ctx, username, telegramID, telegramFirstName, role.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return userID, nil
}

// GetUserByUsername возвращает пользователя по имени телеграмм
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByTelegramID возвращает пользователя по идентификатору телеграм
func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	user, err := s.userRepo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return user, nil
}

// GetUserByID возвращает пользователя по внутреннему идентификатору
func (s *UserService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// LinkStudent привязывает пользователя бота к студенту автошколы
func (s *UserService) LinkStudent(ctx context.Context, userID, studentID int) error {
	if err := s.userRepo.SetStudentID(ctx, userID, studentID); err != nil {
		return fmt.Errorf("failed to link student: %w", err)
	}
	return nil
}

// StudentID возвращает идентификатор студента для пользователя телеграм.
// Если аккаунт не привязан к студенту автошколы, возвращается ошибка.
func (s *UserService) StudentID(ctx context.Context, telegramID int64) (int, error) {
	user, err := s.userRepo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		return 0, err
	}
	if user == nil || user.StudentID == nil {
		return 0, fmt.Errorf("пользователь %d не привязан к студенту автошколы", telegramID)
	}
	return *user.StudentID, nil
}
