package repository

import (
	"context"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// ListEmployeesQuery - явные параметры выборки сотрудников.
// Пустой DepartmentIDs при ByDepartments=true даёт пустой результат
type ListEmployeesQuery struct {
	ActiveOnly    bool
	ByDepartments bool
	DepartmentIDs []int64
	ByIDs         bool
	EmployeeIDs   []int64
}

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context, q ListEmployeesQuery) ([]domain.Employee, error)
	ListByRequirementPairs(ctx context.Context, pairs []domain.RequirementPair, activeOnly bool) ([]domain.Employee, error)
	IDsByDepartments(ctx context.Context, departmentIDs []int64) ([]int64, error)
	Update(ctx context.Context, emp *domain.Employee, actorID int64) error
	UpdateNotes(ctx context.Context, id int64, notes string, actorID int64) (*domain.Employee, error)
	DeleteCascade(ctx context.Context, id int64, actorID int64) error
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
	CountByLocation(ctx context.Context, locationID int64) (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(emp).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(emp.TableName(), emp.ID, domain.ActionCreate, nil, emp, actorID)).Error
	})
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).First(&emp, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) List(ctx context.Context, q ListEmployeesQuery) ([]domain.Employee, error) {
	if q.ByDepartments && len(q.DepartmentIDs) == 0 {
		return []domain.Employee{}, nil
	}
	if q.ByIDs && len(q.EmployeeIDs) == 0 {
		return []domain.Employee{}, nil
	}

	query := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC")
	if q.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if q.ByDepartments {
		query = query.Where("department_id IN ?", q.DepartmentIDs)
	}
	if q.ByIDs {
		query = query.Where("id IN ?", q.EmployeeIDs)
	}

	var employees []domain.Employee
	err := query.Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) ListByRequirementPairs(ctx context.Context, pairs []domain.RequirementPair, activeOnly bool) ([]domain.Employee, error) {
	if len(pairs) == 0 {
		return []domain.Employee{}, nil
	}

	// Дизъюнкция по парам; каждый сотрудник попадает в выборку один раз
	cond := r.db.Where("department_id = ? AND location_id = ?", pairs[0].DepartmentID, pairs[0].LocationID)
	for _, p := range pairs[1:] {
		cond = cond.Or("department_id = ? AND location_id = ?", p.DepartmentID, p.LocationID)
	}

	query := r.db.WithContext(ctx).Where(cond).Order("last_name ASC, first_name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var employees []domain.Employee
	err := query.Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) IDsByDepartments(ctx context.Context, departmentIDs []int64) ([]int64, error) {
	if len(departmentIDs) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("department_id IN ?", departmentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Employee
		if err := tx.First(&old, emp.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrEmployeeNotFound
			}
			return err
		}
		if err := tx.Save(emp).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(emp.TableName(), emp.ID, domain.ActionUpdate, &old, emp, actorID)).Error
	})
}

func (r *employeeRepository) UpdateNotes(ctx context.Context, id int64, notes string, actorID int64) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&emp, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrEmployeeNotFound
			}
			return err
		}
		old := emp
		emp.Notes = notes
		if err := tx.Save(&emp).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(emp.TableName(), emp.ID, domain.ActionPatch, &old, &emp, actorID)).Error
	})
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// DeleteCascade удаляет сотрудника вместе с зависимыми записями об обучении,
// допусках и освобождениях, отвязывает учётную запись и пишет одну запись
// журнала. Всё выполняется в одной транзакции: частичное удаление невозможно
func (r *employeeRepository) DeleteCascade(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Employee
		if err := tx.First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrEmployeeNotFound
			}
			return err
		}

		if err := tx.Where("employee_id = ?", id).Delete(&domain.TrainingRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&domain.TicketRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&domain.Exemption{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.User{}).Where("employee_id = ?", id).Update("employee_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Employee{}, id).Error; err != nil {
			return err
		}

		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}

func (r *employeeRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("department_id = ?", departmentID).
		Count(&count).Error
	return count, err
}

func (r *employeeRepository) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("location_id = ?", locationID).
		Count(&count).Error
	return count, err
}
