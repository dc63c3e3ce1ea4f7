package repository

import (
	"context"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RolePermissionRepository репозиторий для работы с ролями, правами и их связями
type RolePermissionRepository struct {
	db *pgxpool.Pool
}

// NewRolePermissionRepository создает новый экземпляр RolePermissionRepository
func NewRolePermissionRepository(db *pgxpool.Pool) *RolePermissionRepository {
	return &RolePermissionRepository{db: db}
}

// GetRoleByRoleName получает роль по имени роли
func (r *RolePermissionRepository) GetRoleByRoleName(ctx context.Context, roleName string) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRow(ctx, "SELECT id, role_name FROM roles WHERE role_name=$1", roleName).
		Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}
	return &role, nil
}

// GetRoleByTelegramName получает роль по имени телеграм
func (r *RolePermissionRepository) GetRoleByTelegramName(ctx context.Context, telegramName string) (*model.Role, error) {
	var role model.Role
	err := r.db.QueryRow(ctx, `
		SELECT r.id, r.role_name
		FROM roles r
		JOIN users u ON u.role_id = r.id
		WHERE u.telegram_username = $1`, telegramName).
		Scan(&role.ID, &role.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get role by username: %w", err)
	}
	return &role, nil
}

// GetPermissionsByRoleId получает все права для роли
func (r *RolePermissionRepository) GetPermissionsByRoleId(ctx context.Context, roleID int) ([]model.Permission, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.permission_name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions: %w", err)
	}
	defer rows.Close()

	var permissions []model.Permission
	for rows.Next() {
		var permission model.Permission
		if err := rows.Scan(&permission.ID, &permission.Name); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, permission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}

	return permissions, nil
}
