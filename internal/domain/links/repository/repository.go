package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LinkRepository репозиторий для одноразовых ссылок-приглашений на тесты
type LinkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository создает новый экземпляр LinkRepository
func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// SaveTestLink сохраняет токен приглашения на тест
func (r *LinkRepository) SaveTestLink(ctx context.Context, testID int, token string) (int, error) {
	var linkID int
	err := r.db.QueryRow(ctx, `
		INSERT INTO test_links (test_id, token, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id`, testID, token).
		Scan(&linkID)
	if err != nil {
		return 0, fmt.Errorf("failed to save test link: %w", err)
	}
	return linkID, nil
}

// GetTestLinkByToken возвращает ссылку по токену или nil, если токена нет
func (r *LinkRepository) GetTestLinkByToken(ctx context.Context, token string) (*model.TestLink, error) {
	var link model.TestLink
	err := r.db.QueryRow(ctx, `
		SELECT id, test_id, token, created_at, used_at
		FROM test_links WHERE token = $1`, token).
		Scan(&link.ID, &link.TestID, &link.Token, &link.CreatedAt, &link.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get test link: %w", err)
	}
	return &link, nil
}

// MarkUsed помечает ссылку использованной
func (r *LinkRepository) MarkUsed(ctx context.Context, linkID int) error {
	_, err := r.db.Exec(ctx, "UPDATE test_links SET used_at = CURRENT_TIMESTAMP WHERE id = $1", linkID)
	if err != nil {
		return fmt.Errorf("failed to mark test link used: %w", err)
	}
	return nil
}
