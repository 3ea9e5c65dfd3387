package repository

import (
	"context"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// DepartmentRepository определяет интерфейс для работы с подразделениями
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Department, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Department, error)
	Update(ctx context.Context, dept *domain.Department, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
	ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error)
	ChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(dept).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(dept.TableName(), dept.ID, domain.ActionCreate, nil, dept, actorID)).Error
	})
}

func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	var dept domain.Department
	err := r.db.WithContext(ctx).First(&dept, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var depts []domain.Department
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) List(ctx context.Context, activeOnly bool) ([]domain.Department, error) {
	var depts []domain.Department
	query := r.db.WithContext(ctx).Order("level ASC, name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&depts).Error
	return depts, err
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Department
		if err := tx.First(&old, dept.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrDepartmentNotFound
			}
			return err
		}
		if err := tx.Save(dept).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(dept.TableName(), dept.ID, domain.ActionUpdate, &old, dept, actorID)).Error
	})
}

func (r *departmentRepository) Delete(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Department
		if err := tx.First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrDepartmentNotFound
			}
			return err
		}
		if err := tx.Delete(&domain.Department{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}

func (r *departmentRepository) ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Department{}).Where("name = ?", name)

	if parentID != nil {
		query = query.Where("parent_id = ?", *parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	err := query.Count(&count).Error
	return count > 0, err
}

func (r *departmentRepository) ChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Department{}).
		Where("parent_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *departmentRepository) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Department{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}
