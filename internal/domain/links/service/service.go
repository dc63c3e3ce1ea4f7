package service

import (
	"context"
	"fmt"

	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/links/repository"
	"github.com/Fedutin22/replit-driving-school-sub001/internal/domain/model"
)

// LinkService содержит логику для работы с приглашениями на тесты
type LinkService struct {
	linkRepo *repository.LinkRepository
}

// NewLinkService создает новый экземпляр LinkService
func NewLinkService(linkRepo *repository.LinkRepository) *LinkService {
	return &LinkService{linkRepo: linkRepo}
}

// SaveTestLink сохраняет токен приглашения на тест
func (s *LinkService) SaveTestLink(ctx context.Context, testID int, token string) (int, error) {
	linkID, err := s.linkRepo.SaveTestLink(ctx, testID, token)
	if err != nil {
		return 0, fmt.Errorf("failed to save test link: %w", err)
	}
	return linkID, nil
}

// ResolveToken возвращает приглашение по токену и помечает его использованным.
// Для неизвестного или уже использованного токена возвращается ошибка.
func (s *LinkService) ResolveToken(ctx context.Context, token string) (*model.TestLink, error) {
	link, err := s.linkRepo.GetTestLinkByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	if link == nil {
		return nil, fmt.Errorf("приглашение %s не найдено", token)
	}
	if link.UsedAt != nil {
		return nil, fmt.Errorf("приглашение %s уже использовано", token)
	}
	if err := s.linkRepo.MarkUsed(ctx, link.ID); err != nil {
		return nil, err
	}
	return link, nil
}
