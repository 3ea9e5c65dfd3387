package service

import (
	"context"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/repository"
)

// ScopeService разрешает область видимости записей сотрудников
// по роли вызывающего и его назначениям на подразделения
type ScopeService interface {
	ResolveScope(ctx context.Context, caller domain.Caller) (*domain.Scope, error)
	CanAccessEmployee(ctx context.Context, caller domain.Caller, employeeID int64) (bool, error)
}

type scopeService struct {
	userRepo repository.UserRepository
	deptRepo repository.DepartmentRepository
	empRepo  repository.EmployeeRepository
}

// NewScopeService создаёт новый экземпляр сервиса
func NewScopeService(
	userRepo repository.UserRepository,
	deptRepo repository.DepartmentRepository,
	empRepo repository.EmployeeRepository,
) ScopeService {
	return &scopeService{
		userRepo: userRepo,
		deptRepo: deptRepo,
		empRepo:  empRepo,
	}
}

// ResolveScope вычисляет область видимости вызывающего.
// Admin видит всех; DepartmentManager - сотрудников своих подразделений,
// причём подразделение верхнего уровня покрывает и дочерние;
// остальные роли - только собственную запись сотрудника
func (s *scopeService) ResolveScope(ctx context.Context, caller domain.Caller) (*domain.Scope, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return &domain.Scope{Kind: domain.ScopeAll}, nil

	case domain.RoleDepartmentManager:
		return s.resolveManagerScope(ctx, caller.UserID)

	default:
		user, err := s.userRepo.GetByID(ctx, caller.UserID)
		if err != nil {
			return nil, err
		}
		return &domain.Scope{Kind: domain.ScopeSelf, SelfEmployeeID: user.EmployeeID}, nil
	}
}

func (s *scopeService) resolveManagerScope(ctx context.Context, userID int64) (*domain.Scope, error) {
	managedIDs, err := s.userRepo.ManagedDepartmentIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Руководитель без подразделений видит пустой, но успешный результат
	if len(managedIDs) == 0 {
		return &domain.Scope{Kind: domain.ScopeDepartments}, nil
	}

	managed, err := s.deptRepo.GetByIDs(ctx, managedIDs)
	if err != nil {
		return nil, err
	}

	deptIDs := make([]int64, 0, len(managed))
	var topLevel []int64
	for _, d := range managed {
		deptIDs = append(deptIDs, d.ID)
		if d.Level == 0 {
			topLevel = append(topLevel, d.ID)
		}
	}

	// Подразделение верхнего уровня даёт доступ и к его дочерним;
	// дочернее - только к самому себе
	childIDs, err := s.deptRepo.ChildIDs(ctx, topLevel)
	if err != nil {
		return nil, err
	}
	deptIDs = append(deptIDs, childIDs...)

	empIDs, err := s.empRepo.IDsByDepartments(ctx, deptIDs)
	if err != nil {
		return nil, err
	}

	return &domain.Scope{
		Kind:          domain.ScopeDepartments,
		DepartmentIDs: deptIDs,
		EmployeeIDs:   empIDs,
	}, nil
}

// CanAccessEmployee проверяет доступ к конкретной записи сотрудника.
// Область разрешается заново при каждом вызове: привязка сотрудника
// к подразделению могла измениться между запросами
func (s *scopeService) CanAccessEmployee(ctx context.Context, caller domain.Caller, employeeID int64) (bool, error) {
	scope, err := s.ResolveScope(ctx, caller)
	if err != nil {
		return false, err
	}

	switch scope.Kind {
	case domain.ScopeAll:
		return true, nil

	case domain.ScopeDepartments:
		emp, err := s.empRepo.GetByID(ctx, employeeID)
		if err != nil {
			return false, err
		}
		return scope.ContainsDepartment(emp.DepartmentID), nil

	default:
		return scope.SelfEmployeeID != nil && *scope.SelfEmployeeID == employeeID, nil
	}
}
