package repository

import (
	"context"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// LocationRepository определяет интерфейс для работы с локациями
type LocationRepository interface {
	Create(ctx context.Context, loc *domain.Location, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Location, error)
	Update(ctx context.Context, loc *domain.Location, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
	ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository создаёт новый экземпляр репозитория
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, loc *domain.Location, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loc).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(loc.TableName(), loc.ID, domain.ActionCreate, nil, loc, actorID)).Error
	})
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	var loc domain.Location
	err := r.db.WithContext(ctx).First(&loc, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrLocationNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepository) List(ctx context.Context, activeOnly bool) ([]domain.Location, error) {
	var locs []domain.Location
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&locs).Error
	return locs, err
}

func (r *locationRepository) Update(ctx context.Context, loc *domain.Location, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Location
		if err := tx.First(&old, loc.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrLocationNotFound
			}
			return err
		}
		if err := tx.Save(loc).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(loc.TableName(), loc.ID, domain.ActionUpdate, &old, loc, actorID)).Error
	})
}

func (r *locationRepository) Delete(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Location
		if err := tx.First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrLocationNotFound
			}
			return err
		}
		if err := tx.Delete(&domain.Location{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}

func (r *locationRepository) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Location{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
