package repository

import (
	"context"
	"time"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// RecordQuery - явные параметры выборки записей о прохождении
type RecordQuery struct {
	ByEmployees bool
	EmployeeIDs []int64
	SubjectID   *int64
}

// RecordRepository определяет интерфейс для записей об обучениях и допусках
type RecordRepository interface {
	CreateTrainingRecord(ctx context.Context, rec *domain.TrainingRecord, actorID int64) error
	CreateTicketRecord(ctx context.Context, rec *domain.TicketRecord, actorID int64) error
	GetTrainingRecord(ctx context.Context, id int64) (*domain.TrainingRecord, error)
	GetTicketRecord(ctx context.Context, id int64) (*domain.TicketRecord, error)
	ListTrainingRecords(ctx context.Context, q RecordQuery) ([]domain.TrainingRecord, error)
	ListTicketRecords(ctx context.Context, q RecordQuery) ([]domain.TicketRecord, error)
	TrainingRecordExists(ctx context.Context, employeeID, trainingID int64, completedAt time.Time) (bool, error)
	TicketRecordExists(ctx context.Context, employeeID, ticketID int64, issuedAt time.Time) (bool, error)
	DeleteTrainingRecord(ctx context.Context, id int64, actorID int64) error
	DeleteTicketRecord(ctx context.Context, id int64, actorID int64) error
	CompletedEmployeeIDs(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time) ([]int64, error)
	CountByTraining(ctx context.Context, trainingID int64) (int64, error)
	CountByTicket(ctx context.Context, ticketID int64) (int64, error)
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository создаёт новый экземпляр репозитория
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) CreateTrainingRecord(ctx context.Context, rec *domain.TrainingRecord, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(rec.TableName(), rec.ID, domain.ActionCreate, nil, rec, actorID)).Error
	})
}

func (r *recordRepository) CreateTicketRecord(ctx context.Context, rec *domain.TicketRecord, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rec).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(rec.TableName(), rec.ID, domain.ActionCreate, nil, rec, actorID)).Error
	})
}

func (r *recordRepository) GetTrainingRecord(ctx context.Context, id int64) (*domain.TrainingRecord, error) {
	var rec domain.TrainingRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepository) GetTicketRecord(ctx context.Context, id int64) (*domain.TicketRecord, error) {
	var rec domain.TicketRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepository) ListTrainingRecords(ctx context.Context, q RecordQuery) ([]domain.TrainingRecord, error) {
	if q.ByEmployees && len(q.EmployeeIDs) == 0 {
		return []domain.TrainingRecord{}, nil
	}
	query := r.db.WithContext(ctx).Order("completed_at DESC")
	if q.ByEmployees {
		query = query.Where("employee_id IN ?", q.EmployeeIDs)
	}
	if q.SubjectID != nil {
		query = query.Where("training_id = ?", *q.SubjectID)
	}
	var records []domain.TrainingRecord
	err := query.Find(&records).Error
	return records, err
}

func (r *recordRepository) ListTicketRecords(ctx context.Context, q RecordQuery) ([]domain.TicketRecord, error) {
	if q.ByEmployees && len(q.EmployeeIDs) == 0 {
		return []domain.TicketRecord{}, nil
	}
	query := r.db.WithContext(ctx).Order("issued_at DESC")
	if q.ByEmployees {
		query = query.Where("employee_id IN ?", q.EmployeeIDs)
	}
	if q.SubjectID != nil {
		query = query.Where("ticket_id = ?", *q.SubjectID)
	}
	var records []domain.TicketRecord
	err := query.Find(&records).Error
	return records, err
}

func (r *recordRepository) TrainingRecordExists(ctx context.Context, employeeID, trainingID int64, completedAt time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TrainingRecord{}).
		Where("employee_id = ? AND training_id = ? AND completed_at = ?", employeeID, trainingID, completedAt).
		Count(&count).Error
	return count > 0, err
}

func (r *recordRepository) TicketRecordExists(ctx context.Context, employeeID, ticketID int64, issuedAt time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TicketRecord{}).
		Where("employee_id = ? AND ticket_id = ? AND issued_at = ?", employeeID, ticketID, issuedAt).
		Count(&count).Error
	return count > 0, err
}

func (r *recordRepository) DeleteTrainingRecord(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.TrainingRecord
		if err := tx.First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrRecordNotFound
			}
			return err
		}
		if err := tx.Delete(&domain.TrainingRecord{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}

func (r *recordRepository) DeleteTicketRecord(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.TicketRecord
		if err := tx.First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrRecordNotFound
			}
			return err
		}
		if err := tx.Delete(&domain.TicketRecord{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}

// CompletedEmployeeIDs возвращает сотрудников с действующей записью о
// прохождении: без срока либо со сроком не раньше даты оценки.
// Срок, равный дате оценки, ещё действителен
func (r *recordRepository) CompletedEmployeeIDs(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time) ([]int64, error) {
	var ids []int64
	var err error
	switch kind {
	case domain.SubjectTraining:
		err = r.db.WithContext(ctx).
			Model(&domain.TrainingRecord{}).
			Where("training_id = ?", subjectID).
			Where("expires_at IS NULL OR expires_at >= ?", evalDate).
			Distinct().
			Pluck("employee_id", &ids).Error
	case domain.SubjectTicket:
		err = r.db.WithContext(ctx).
			Model(&domain.TicketRecord{}).
			Where("ticket_id = ?", subjectID).
			Where("expires_at IS NULL OR expires_at >= ?", evalDate).
			Distinct().
			Pluck("employee_id", &ids).Error
	}
	return ids, err
}

func (r *recordRepository) CountByTraining(ctx context.Context, trainingID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TrainingRecord{}).
		Where("training_id = ?", trainingID).
		Count(&count).Error
	return count, err
}

func (r *recordRepository) CountByTicket(ctx context.Context, ticketID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.TicketRecord{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error
	return count, err
}
