package service

import (
	"context"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/roles/repository"
	"gopkg.in/telebot.v4"
)

// RoleService содержит логику для работы с ролями и правами
type RoleService struct {
	rolePermissionRepo *repository.RolePermissionRepository
}

// NewRoleService создает новый экземпляр RoleService
func NewRoleService(rolePermissionRepo *repository.RolePermissionRepository) *RoleService {
	return &RoleService{rolePermissionRepo: rolePermissionRepo}
}

// GetPermissionsForUser получает все права для пользователя по его роли
func (s *RoleService) GetPermissionsForUser(ctx context.Context, roleID int) ([]string, error) {
	permissions, err := s.rolePermissionRepo.GetPermissionsByRoleId(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}

	var permissionNames []string
	for _, perm := range permissions {
		permissionNames = append(permissionNames, perm.Name)
	}
	return permissionNames, nil
}

// GetRoleBasedKeyboard генерирует клавиатуру главного меню на основе прав пользователя.
// Тексты кнопок подгружаются из таблицы сообщений по ключам кнопок.
func (s *RoleService) GetRoleBasedKeyboard(ctx context.Context, roleID int, buttonsMessages map[string]string) ([][]telebot.InlineButton, error) {
	permissions, err := s.GetPermissionsForUser(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}

	var keyboard [][]telebot.InlineButton
	for _, permission := range permissions {
		switch permission {
		case model.ViewCoursesKey, model.MyScheduleKey, model.MyPaymentsKey, model.MyCertificatesKey, model.TakeTestKey:
			keyboard = append(keyboard, []telebot.InlineButton{{
				Unique: permission,
				Text:   buttonsMessages[permission],
			}})
		}
	}
	return keyboard, nil
}
