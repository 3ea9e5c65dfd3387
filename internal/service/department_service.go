package service

import (
	"context"
	"strings"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// DepartmentService определяет интерфейс бизнес-логики для подразделений
type DepartmentService interface {
	Create(ctx context.Context, caller domain.Caller, req *dto.CreateDepartmentRequest) (*domain.Department, error)
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Department, error)
	Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
}

type departmentService struct {
	deptRepo repository.DepartmentRepository
	empRepo  repository.EmployeeRepository
}

// NewDepartmentService создаёт новый экземпляр сервиса
func NewDepartmentService(deptRepo repository.DepartmentRepository, empRepo repository.EmployeeRepository) DepartmentService {
	return &departmentService{
		deptRepo: deptRepo,
		empRepo:  empRepo,
	}
}

func (s *departmentService) Create(ctx context.Context, caller domain.Caller, req *dto.CreateDepartmentRequest) (*domain.Department, error) {
	name := strings.TrimSpace(req.Name)
	level := 0

	// Иерархия строго двухуровневая: дочернее подразделение
	// не может стать родителем
	if req.ParentID != nil {
		parent, err := s.deptRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Level != 0 {
			return nil, domain.ErrDepartmentDepth
		}
		level = 1
	}

	exists, err := s.deptRepo.ExistsByNameAndParent(ctx, name, req.ParentID, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateDepartmentName
	}

	dept := &domain.Department{
		Name:     name,
		ParentID: req.ParentID,
		Level:    level,
		IsActive: true,
	}

	if err := s.deptRepo.Create(ctx, dept, caller.UserID); err != nil {
		return nil, err
	}

	return dept, nil
}

func (s *departmentService) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	return s.deptRepo.GetByID(ctx, id)
}

func (s *departmentService) List(ctx context.Context, activeOnly bool) ([]domain.Department, error) {
	return s.deptRepo.List(ctx, activeOnly)
}

func (s *departmentService) Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateDepartmentRequest) (*domain.Department, error) {
	dept, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		newParentID := *req.ParentID
		if newParentID == id {
			return nil, domain.ErrDepartmentDepth
		}

		parent, err := s.deptRepo.GetByID(ctx, newParentID)
		if err != nil {
			return nil, err
		}
		if parent.Level != 0 {
			return nil, domain.ErrDepartmentDepth
		}

		// Подразделение с дочерними не может стать чьим-то дочерним
		childCount, err := s.deptRepo.CountChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		if childCount > 0 {
			return nil, domain.ErrDepartmentDepth
		}

		dept.ParentID = &newParentID
		dept.Level = 1
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		exists, err := s.deptRepo.ExistsByNameAndParent(ctx, name, dept.ParentID, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateDepartmentName
		}
		dept.Name = name
	}

	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	if err := s.deptRepo.Update(ctx, dept, caller.UserID); err != nil {
		return nil, err
	}

	return dept, nil
}

// Delete отклоняет удаление, пока на подразделение ссылаются
// сотрудники или дочерние подразделения
func (s *departmentService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return err
	}

	empCount, err := s.empRepo.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if empCount > 0 {
		return &domain.DependencyError{Resource: "department", Dependency: "employees", Count: empCount}
	}

	childCount, err := s.deptRepo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return &domain.DependencyError{Resource: "department", Dependency: "child departments", Count: childCount}
	}

	return s.deptRepo.Delete(ctx, id, caller.UserID)
}
