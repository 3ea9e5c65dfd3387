package service

import (
	"context"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/repository"
)

// HistoryService читает журнал аудита
type HistoryService interface {
	List(ctx context.Context, q repository.HistoryQuery) ([]domain.History, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService создаёт новый экземпляр сервиса
func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

func (s *historyService) List(ctx context.Context, q repository.HistoryQuery) ([]domain.History, error) {
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	return s.historyRepo.List(ctx, q)
}
