package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository репозиторий для работы с пользователями бота
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// GetUserByUsername возвращает пользователя по нику телеграм или nil, если его нет
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, `
		SELECT id, role_id, telegram_id, telegram_username, telegram_first_name, student_id, created_at, updated_at
		FROM users WHERE telegram_username = $1`, username).
		Scan(&user.ID, &user.RoleID, &user.TelegramID, &user.TelegramUsername, &user.TelegramFirstName,
			&user.StudentID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByTelegramID возвращает пользователя по идентификатору телеграм
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, `
		SELECT id, role_id, telegram_id, telegram_username, telegram_first_name, student_id, created_at, updated_at
		FROM users WHERE telegram_id = $1`, telegramID).
		Scan(&user.ID, &user.RoleID, &user.TelegramID, &user.TelegramUsername, &user.TelegramFirstName,
			&user.StudentID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return &user, nil
}

// GetUserByID возвращает пользователя по внутреннему идентификатору
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.QueryRow(ctx, `
		SELECT id, role_id, telegram_id, telegram_username, telegram_first_name, student_id, created_at, updated_at
		FROM users WHERE id = $1`, id).
		Scan(&user.ID, &user.RoleID, &user.TelegramID, &user.TelegramUsername, &user.TelegramFirstName,
			&user.StudentID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// CreateUser создает нового пользователя с заданной ролью
func (r *UserRepository) CreateUser(ctx context.Context, username string, telegramID int64, firstName string, roleID int) (int, error) {
	var userID int
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (telegram_username, telegram_id, telegram_first_name, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id`, username, telegramID, firstName, roleID).
		Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return userID, nil
}

// SetStudentID привязывает к пользователю идентификатор студента из системы автошколы
func (r *UserRepository) SetStudentID(ctx context.Context, userID, studentID int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users SET student_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, studentID, userID)
	if err != nil {
		return fmt.Errorf("failed to set student id: %w", err)
	}
	return nil
}
