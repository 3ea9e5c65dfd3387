package service

import (
	"context"
	"strings"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// LocationService определяет интерфейс бизнес-логики для локаций
type LocationService interface {
	Create(ctx context.Context, caller domain.Caller, req *dto.CreateLocationRequest) (*domain.Location, error)
	GetByID(ctx context.Context, id int64) (*domain.Location, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Location, error)
	Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateLocationRequest) (*domain.Location, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
}

type locationService struct {
	locRepo repository.LocationRepository
	empRepo repository.EmployeeRepository
}

// NewLocationService создаёт новый экземпляр сервиса
func NewLocationService(locRepo repository.LocationRepository, empRepo repository.EmployeeRepository) LocationService {
	return &locationService{
		locRepo: locRepo,
		empRepo: empRepo,
	}
}

func (s *locationService) Create(ctx context.Context, caller domain.Caller, req *dto.CreateLocationRequest) (*domain.Location, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.locRepo.ExistsByName(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateLocationName
	}

	loc := &domain.Location{Name: name, IsActive: true}
	if err := s.locRepo.Create(ctx, loc, caller.UserID); err != nil {
		return nil, err
	}

	return loc, nil
}

func (s *locationService) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	return s.locRepo.GetByID(ctx, id)
}

func (s *locationService) List(ctx context.Context, activeOnly bool) ([]domain.Location, error) {
	return s.locRepo.List(ctx, activeOnly)
}

func (s *locationService) Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateLocationRequest) (*domain.Location, error) {
	loc, err := s.locRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		exists, err := s.locRepo.ExistsByName(ctx, name, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrDuplicateLocationName
		}
		loc.Name = name
	}

	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}

	if err := s.locRepo.Update(ctx, loc, caller.UserID); err != nil {
		return nil, err
	}

	return loc, nil
}

func (s *locationService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.locRepo.GetByID(ctx, id); err != nil {
		return err
	}

	empCount, err := s.empRepo.CountByLocation(ctx, id)
	if err != nil {
		return err
	}
	if empCount > 0 {
		return &domain.DependencyError{Resource: "location", Dependency: "employees", Count: empCount}
	}

	return s.locRepo.Delete(ctx, id, caller.UserID)
}
