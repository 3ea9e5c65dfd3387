package repository

import (
	"context"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// TrainingRepository определяет интерфейс для работы с обучениями
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training, actorID int64) error
	CreatePair(ctx context.Context, first, second *domain.Training, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Training, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Training, error)
	Update(ctx context.Context, training *domain.Training, replaceRequirements bool, actorID int64) error
	ConvertToPair(ctx context.Context, original, sibling *domain.Training, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
}

type trainingRepository struct {
	db *gorm.DB
}

// NewTrainingRepository создаёт новый экземпляр репозитория
func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) Create(ctx context.Context, training *domain.Training, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createTraining(tx, training, actorID)
	})
}

// CreatePair создаёт обе части SOP-обучения в одной транзакции,
// с записью журнала для каждой
func (r *trainingRepository) CreatePair(ctx context.Context, first, second *domain.Training, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createTraining(tx, first, actorID); err != nil {
			return err
		}
		return createTraining(tx, second, actorID)
	})
}

func createTraining(tx *gorm.DB, training *domain.Training, actorID int64) error {
	if err := tx.Create(training).Error; err != nil {
		return err
	}
	return tx.Create(audit.Entry(training.TableName(), training.ID, domain.ActionCreate, nil, training, actorID)).Error
}

func (r *trainingRepository) GetByID(ctx context.Context, id int64) (*domain.Training, error) {
	var training domain.Training
	err := r.db.WithContext(ctx).Preload("Requirements").First(&training, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTrainingNotFound
		}
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepository) List(ctx context.Context, activeOnly bool) ([]domain.Training, error) {
	var trainings []domain.Training
	query := r.db.WithContext(ctx).Preload("Requirements").Order("title ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&trainings).Error
	return trainings, err
}

func (r *trainingRepository) Update(ctx context.Context, training *domain.Training, replaceRequirements bool, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Training
		if err := tx.Preload("Requirements").First(&old, training.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrTrainingNotFound
			}
			return err
		}

		if replaceRequirements {
			if err := tx.Where("training_id = ?", training.ID).Delete(&domain.TrainingRequirement{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Omit("Requirements").Save(training).Error; err != nil {
			return err
		}

		if replaceRequirements && len(training.Requirements) > 0 {
			if err := tx.Create(&training.Requirements).Error; err != nil {
				return err
			}
		}

		return tx.Create(audit.Entry(training.TableName(), training.ID, domain.ActionUpdate, &old, training, actorID)).Error
	})
}

// ConvertToPair переводит обучение в категорию SOP: исходная запись
// становится вариантом Task Sheet, рядом создаётся вариант Practical
// с копией строк требований. Обе записи журналируются
func (r *trainingRepository) ConvertToPair(ctx context.Context, original, sibling *domain.Training, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Training
		if err := tx.Preload("Requirements").First(&old, original.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrTrainingNotFound
			}
			return err
		}

		if err := tx.Omit("Requirements").Save(original).Error; err != nil {
			return err
		}
		if err := tx.Create(audit.Entry(original.TableName(), original.ID, domain.ActionUpdate, &old, original, actorID)).Error; err != nil {
			return err
		}

		return createTraining(tx, sibling, actorID)
	})
}

func (r *trainingRepository) Delete(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Training
		if err := tx.Preload("Requirements").First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrTrainingNotFound
			}
			return err
		}
		if err := tx.Where("training_id = ?", id).Delete(&domain.TrainingRequirement{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Training{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}
