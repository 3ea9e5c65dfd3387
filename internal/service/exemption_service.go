package service

import (
	"context"
	"strings"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// ExemptionService определяет интерфейс бизнес-логики для освобождений
type ExemptionService interface {
	Create(ctx context.Context, caller domain.Caller, req *dto.CreateExemptionRequest) (*domain.Exemption, error)
	List(ctx context.Context, caller domain.Caller) ([]domain.Exemption, error)
	Revoke(ctx context.Context, caller domain.Caller, id int64) (*domain.Exemption, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
}

type exemptionService struct {
	exemptionRepo repository.ExemptionRepository
	empRepo       repository.EmployeeRepository
	trainingRepo  repository.TrainingRepository
	ticketRepo    repository.TicketRepository
	scopeService  ScopeService
}

// NewExemptionService создаёт новый экземпляр сервиса
func NewExemptionService(
	exemptionRepo repository.ExemptionRepository,
	empRepo repository.EmployeeRepository,
	trainingRepo repository.TrainingRepository,
	ticketRepo repository.TicketRepository,
	scopeService ScopeService,
) ExemptionService {
	return &exemptionService{
		exemptionRepo: exemptionRepo,
		empRepo:       empRepo,
		trainingRepo:  trainingRepo,
		ticketRepo:    ticketRepo,
		scopeService:  scopeService,
	}
}

func (s *exemptionService) Create(ctx context.Context, caller domain.Caller, req *dto.CreateExemptionRequest) (*domain.Exemption, error) {
	kind := domain.SubjectKind(req.Type)

	// Ссылка на предмет должна соответствовать типу освобождения
	var subjectID int64
	switch kind {
	case domain.SubjectTraining:
		if req.TrainingID == nil || req.TicketID != nil {
			return nil, domain.ErrInvalidSubjectRef
		}
		subjectID = *req.TrainingID
		if _, err := s.trainingRepo.GetByID(ctx, subjectID); err != nil {
			return nil, err
		}
	case domain.SubjectTicket:
		if req.TicketID == nil || req.TrainingID != nil {
			return nil, domain.ErrInvalidSubjectRef
		}
		subjectID = *req.TicketID
		if _, err := s.ticketRepo.GetByID(ctx, subjectID); err != nil {
			return nil, err
		}
	}

	if _, err := s.empRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, domain.ErrInvalidDateRange
	}

	// Явная проверка дубликата до вставки
	exists, err := s.exemptionRepo.ActiveExists(ctx, req.EmployeeID, kind, subjectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateExemption
	}

	exemption := &domain.Exemption{
		EmployeeID: req.EmployeeID,
		Type:       kind,
		TrainingID: req.TrainingID,
		TicketID:   req.TicketID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     domain.ExemptionActive,
	}

	if err := s.exemptionRepo.Create(ctx, exemption, caller.UserID); err != nil {
		return nil, err
	}

	return exemption, nil
}

// List возвращает освобождения в области видимости вызывающего.
// Ответ всегда плоский список, независимо от роли
func (s *exemptionService) List(ctx context.Context, caller domain.Caller) ([]domain.Exemption, error) {
	scope, err := s.scopeService.ResolveScope(ctx, caller)
	if err != nil {
		return nil, err
	}

	q := repository.ExemptionQuery{}
	switch scope.Kind {
	case domain.ScopeAll:
	case domain.ScopeDepartments:
		q.ByEmployees = true
		q.EmployeeIDs = scope.EmployeeIDs
	default:
		q.ByEmployees = true
		if scope.SelfEmployeeID != nil {
			q.EmployeeIDs = []int64{*scope.SelfEmployeeID}
		}
	}

	return s.exemptionRepo.List(ctx, q)
}

func (s *exemptionService) Revoke(ctx context.Context, caller domain.Caller, id int64) (*domain.Exemption, error) {
	exemption, err := s.exemptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exemption.Status = domain.ExemptionRevoked
	if err := s.exemptionRepo.Update(ctx, exemption, caller.UserID); err != nil {
		return nil, err
	}

	return exemption, nil
}

func (s *exemptionService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	return s.exemptionRepo.Delete(ctx, id, caller.UserID)
}
