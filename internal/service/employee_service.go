package service

import (
	"context"
	"strings"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	List(ctx context.Context, caller domain.Caller, activeOnly bool) ([]domain.Employee, error)
	GetByID(ctx context.Context, caller domain.Caller, id int64) (*domain.Employee, error)
	Create(ctx context.Context, caller domain.Caller, req *dto.CreateEmployeeRequest) (*domain.Employee, error)
	Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateEmployeeRequest) (*domain.Employee, error)
	UpdateNotes(ctx context.Context, caller domain.Caller, id int64, notes string) (*domain.Employee, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
}

type employeeService struct {
	empRepo      repository.EmployeeRepository
	deptRepo     repository.DepartmentRepository
	locRepo      repository.LocationRepository
	scopeService ScopeService
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(
	empRepo repository.EmployeeRepository,
	deptRepo repository.DepartmentRepository,
	locRepo repository.LocationRepository,
	scopeService ScopeService,
) EmployeeService {
	return &employeeService{
		empRepo:      empRepo,
		deptRepo:     deptRepo,
		locRepo:      locRepo,
		scopeService: scopeService,
	}
}

// List возвращает сотрудников в области видимости вызывающего.
// Пустая область даёт пустой список, а не ошибку
func (s *employeeService) List(ctx context.Context, caller domain.Caller, activeOnly bool) ([]domain.Employee, error) {
	scope, err := s.scopeService.ResolveScope(ctx, caller)
	if err != nil {
		return nil, err
	}

	q := repository.ListEmployeesQuery{ActiveOnly: activeOnly}
	switch scope.Kind {
	case domain.ScopeAll:
	case domain.ScopeDepartments:
		q.ByDepartments = true
		q.DepartmentIDs = scope.DepartmentIDs
	default:
		q.ByIDs = true
		if scope.SelfEmployeeID != nil {
			q.EmployeeIDs = []int64{*scope.SelfEmployeeID}
		}
	}

	return s.empRepo.List(ctx, q)
}

func (s *employeeService) GetByID(ctx context.Context, caller domain.Caller, id int64) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.scopeService.CanAccessEmployee(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	return emp, nil
}

func (s *employeeService) Create(ctx context.Context, caller domain.Caller, req *dto.CreateEmployeeRequest) (*domain.Employee, error) {
	if err := s.checkRefs(ctx, req.DepartmentID, req.LocationID); err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	finishDate, err := parseDatePtr(req.FinishDate)
	if err != nil {
		return nil, err
	}
	if finishDate != nil && finishDate.Before(startDate) {
		return nil, domain.ErrInvalidDateRange
	}

	emp := &domain.Employee{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.TrimSpace(req.Email),
		Position:     strings.TrimSpace(req.Position),
		DepartmentID: req.DepartmentID,
		LocationID:   req.LocationID,
		IsActive:     true,
		StartDate:    startDate,
		FinishDate:   finishDate,
		Notes:        req.Notes,
	}

	if err := s.empRepo.Create(ctx, emp, caller.UserID); err != nil {
		return nil, err
	}

	return emp, nil
}

func (s *employeeService) Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateEmployeeRequest) (*domain.Employee, error) {
	emp, err := s.empRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkRefs(ctx, req.DepartmentID, req.LocationID); err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	finishDate, err := parseDatePtr(req.FinishDate)
	if err != nil {
		return nil, err
	}
	if finishDate != nil && finishDate.Before(startDate) {
		return nil, domain.ErrInvalidDateRange
	}

	emp.FirstName = strings.TrimSpace(req.FirstName)
	emp.LastName = strings.TrimSpace(req.LastName)
	emp.Email = strings.TrimSpace(req.Email)
	emp.Position = strings.TrimSpace(req.Position)
	emp.DepartmentID = req.DepartmentID
	emp.LocationID = req.LocationID
	emp.IsActive = *req.IsActive
	emp.StartDate = startDate
	emp.FinishDate = finishDate
	emp.Notes = req.Notes

	if err := s.empRepo.Update(ctx, emp, caller.UserID); err != nil {
		return nil, err
	}

	return emp, nil
}

// UpdateNotes позволяет пользователю менять заметки только в собственной
// записи; администратор может менять в любой
func (s *employeeService) UpdateNotes(ctx context.Context, caller domain.Caller, id int64, notes string) (*domain.Employee, error) {
	if _, err := s.empRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if caller.Role != domain.RoleAdmin {
		scope, err := s.scopeService.ResolveScope(ctx, caller)
		if err != nil {
			return nil, err
		}
		if scope.Kind == domain.ScopeSelf && scope.SelfEmployeeID == nil {
			return nil, domain.ErrNoLinkedEmployee
		}
		if scope.Kind != domain.ScopeSelf || *scope.SelfEmployeeID != id {
			return nil, domain.ErrForbidden
		}
	}

	return s.empRepo.UpdateNotes(ctx, id, notes, caller.UserID)
}

func (s *employeeService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	return s.empRepo.DeleteCascade(ctx, id, caller.UserID)
}

func (s *employeeService) checkRefs(ctx context.Context, departmentID, locationID int64) error {
	if _, err := s.deptRepo.GetByID(ctx, departmentID); err != nil {
		return err
	}
	if _, err := s.locRepo.GetByID(ctx, locationID); err != nil {
		return err
	}
	return nil
}
