package repository

import (
	"context"
	"time"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// ExemptionQuery - явные параметры выборки освобождений
type ExemptionQuery struct {
	ByEmployees bool
	EmployeeIDs []int64
}

// ExemptionRepository определяет интерфейс для работы с освобождениями
type ExemptionRepository interface {
	Create(ctx context.Context, e *domain.Exemption, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Exemption, error)
	List(ctx context.Context, q ExemptionQuery) ([]domain.Exemption, error)
	Update(ctx context.Context, e *domain.Exemption, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
	ActiveExists(ctx context.Context, employeeID int64, kind domain.SubjectKind, subjectID int64) (bool, error)
	ExemptEmployeeIDs(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time) ([]int64, error)
}

type exemptionRepository struct {
	db *gorm.DB
}

// NewExemptionRepository создаёт новый экземпляр репозитория
func NewExemptionRepository(db *gorm.DB) ExemptionRepository {
	return &exemptionRepository{db: db}
}

func (r *exemptionRepository) Create(ctx context.Context, e *domain.Exemption, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(e.TableName(), e.ID, domain.ActionCreate, nil, e, actorID)).Error
	})
}

func (r *exemptionRepository) GetByID(ctx context.Context, id int64) (*domain.Exemption, error) {
	var e domain.Exemption
	err := r.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrExemptionNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *exemptionRepository) List(ctx context.Context, q ExemptionQuery) ([]domain.Exemption, error) {
	if q.ByEmployees && len(q.EmployeeIDs) == 0 {
		return []domain.Exemption{}, nil
	}
	query := r.db.WithContext(ctx).Order("start_date DESC")
	if q.ByEmployees {
		query = query.Where("employee_id IN ?", q.EmployeeIDs)
	}
	var exemptions []domain.Exemption
	err := query.Find(&exemptions).Error
	return exemptions, err
}

func (r *exemptionRepository) Update(ctx context.Context, e *domain.Exemption, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Exemption
		if err := tx.First(&old, e.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrExemptionNotFound
			}
			return err
		}
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(e.TableName(), e.ID, domain.ActionUpdate, &old, e, actorID)).Error
	})
}

func (r *exemptionRepository) Delete(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Exemption
		if err := tx.First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrExemptionNotFound
			}
			return err
		}
		if err := tx.Delete(&domain.Exemption{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}

func (r *exemptionRepository) ActiveExists(ctx context.Context, employeeID int64, kind domain.SubjectKind, subjectID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&domain.Exemption{}).
		Where("employee_id = ? AND type = ? AND status = ?", employeeID, kind, domain.ExemptionActive)
	query = bySubject(query, kind, subjectID)
	err := query.Count(&count).Error
	return count > 0, err
}

// ExemptEmployeeIDs возвращает сотрудников с действующим на дату оценки
// освобождением. Границы диапазона дат включительные
func (r *exemptionRepository) ExemptEmployeeIDs(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time) ([]int64, error) {
	var ids []int64
	query := r.db.WithContext(ctx).
		Model(&domain.Exemption{}).
		Where("type = ? AND status = ?", kind, domain.ExemptionActive).
		Where("start_date <= ?", evalDate).
		Where("end_date IS NULL OR end_date >= ?", evalDate)
	query = bySubject(query, kind, subjectID)
	err := query.Distinct().Pluck("employee_id", &ids).Error
	return ids, err
}

func bySubject(query *gorm.DB, kind domain.SubjectKind, subjectID int64) *gorm.DB {
	if kind == domain.SubjectTraining {
		return query.Where("training_id = ?", subjectID)
	}
	return query.Where("ticket_id = ?", subjectID)
}
