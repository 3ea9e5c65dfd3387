package repository

import (
	"context"

	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// HistoryQuery - явные параметры выборки журнала аудита
type HistoryQuery struct {
	TableName string
	RecordID  string
	Limit     int
	Offset    int
}

// HistoryRepository читает журнал аудита. Записи в журнал добавляются
// только внутри транзакций мутирующих репозиториев
type HistoryRepository interface {
	List(ctx context.Context, q HistoryQuery) ([]domain.History, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository создаёт новый экземпляр репозитория
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) List(ctx context.Context, q HistoryQuery) ([]domain.History, error) {
	query := r.db.WithContext(ctx).Order("timestamp DESC, id DESC")

	if q.TableName != "" {
		query = query.Where("table_name = ?", q.TableName)
	}
	if q.RecordID != "" {
		query = query.Where("record_id = ?", q.RecordID)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}

	var entries []domain.History
	err := query.Find(&entries).Error
	return entries, err
}
