package service

import (
	"context"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// RecordService определяет интерфейс бизнес-логики для записей
// о прохождении обучений и выдаче допусков
type RecordService interface {
	CreateTrainingRecord(ctx context.Context, caller domain.Caller, req *dto.CreateTrainingRecordRequest) (*domain.TrainingRecord, error)
	CreateTicketRecord(ctx context.Context, caller domain.Caller, req *dto.CreateTicketRecordRequest) (*domain.TicketRecord, error)
	ListTrainingRecords(ctx context.Context, caller domain.Caller, employeeID *int64) ([]domain.TrainingRecord, error)
	ListTicketRecords(ctx context.Context, caller domain.Caller, employeeID *int64) ([]domain.TicketRecord, error)
	DeleteTrainingRecord(ctx context.Context, caller domain.Caller, id int64) error
	DeleteTicketRecord(ctx context.Context, caller domain.Caller, id int64) error
}

type recordService struct {
	recordRepo   repository.RecordRepository
	empRepo      repository.EmployeeRepository
	trainingRepo repository.TrainingRepository
	ticketRepo   repository.TicketRepository
	scopeService ScopeService
}

// NewRecordService создаёт новый экземпляр сервиса
func NewRecordService(
	recordRepo repository.RecordRepository,
	empRepo repository.EmployeeRepository,
	trainingRepo repository.TrainingRepository,
	ticketRepo repository.TicketRepository,
	scopeService ScopeService,
) RecordService {
	return &recordService{
		recordRepo:   recordRepo,
		empRepo:      empRepo,
		trainingRepo: trainingRepo,
		ticketRepo:   ticketRepo,
		scopeService: scopeService,
	}
}

func (s *recordService) CreateTrainingRecord(ctx context.Context, caller domain.Caller, req *dto.CreateTrainingRecordRequest) (*domain.TrainingRecord, error) {
	if _, err := s.empRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := s.trainingRepo.GetByID(ctx, req.TrainingID); err != nil {
		return nil, err
	}

	completedAt, err := parseDate(req.CompletedAt)
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseDatePtr(req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if expiresAt != nil && expiresAt.Before(completedAt) {
		return nil, domain.ErrInvalidDateRange
	}

	// Явная проверка дубликата до вставки
	exists, err := s.recordRepo.TrainingRecordExists(ctx, req.EmployeeID, req.TrainingID, completedAt)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateRecord
	}

	rec := &domain.TrainingRecord{
		EmployeeID:      req.EmployeeID,
		TrainingID:      req.TrainingID,
		CompletedAt:     completedAt,
		ExpiresAt:       expiresAt,
		CertificatePath: req.CertificatePath,
	}

	if err := s.recordRepo.CreateTrainingRecord(ctx, rec, caller.UserID); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *recordService) CreateTicketRecord(ctx context.Context, caller domain.Caller, req *dto.CreateTicketRecordRequest) (*domain.TicketRecord, error) {
	if _, err := s.empRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := s.ticketRepo.GetByID(ctx, req.TicketID); err != nil {
		return nil, err
	}

	issuedAt, err := parseDate(req.IssuedAt)
	if err != nil {
		return nil, err
	}
	expiresAt, err := parseDatePtr(req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if expiresAt != nil && expiresAt.Before(issuedAt) {
		return nil, domain.ErrInvalidDateRange
	}

	exists, err := s.recordRepo.TicketRecordExists(ctx, req.EmployeeID, req.TicketID, issuedAt)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateRecord
	}

	rec := &domain.TicketRecord{
		EmployeeID:      req.EmployeeID,
		TicketID:        req.TicketID,
		IssuedAt:        issuedAt,
		ExpiresAt:       expiresAt,
		LicenceNumber:   req.LicenceNumber,
		CertificatePath: req.CertificatePath,
	}

	if err := s.recordRepo.CreateTicketRecord(ctx, rec, caller.UserID); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *recordService) ListTrainingRecords(ctx context.Context, caller domain.Caller, employeeID *int64) ([]domain.TrainingRecord, error) {
	q, err := s.recordQuery(ctx, caller, employeeID)
	if err != nil {
		return nil, err
	}
	return s.recordRepo.ListTrainingRecords(ctx, q)
}

func (s *recordService) ListTicketRecords(ctx context.Context, caller domain.Caller, employeeID *int64) ([]domain.TicketRecord, error) {
	q, err := s.recordQuery(ctx, caller, employeeID)
	if err != nil {
		return nil, err
	}
	return s.recordRepo.ListTicketRecords(ctx, q)
}

func (s *recordService) DeleteTrainingRecord(ctx context.Context, caller domain.Caller, id int64) error {
	return s.recordRepo.DeleteTrainingRecord(ctx, id, caller.UserID)
}

func (s *recordService) DeleteTicketRecord(ctx context.Context, caller domain.Caller, id int64) error {
	return s.recordRepo.DeleteTicketRecord(ctx, id, caller.UserID)
}

// recordQuery строит параметры выборки по области видимости вызывающего.
// Запрошенный сотрудник вне области даёт отказ в доступе
func (s *recordService) recordQuery(ctx context.Context, caller domain.Caller, employeeID *int64) (repository.RecordQuery, error) {
	scope, err := s.scopeService.ResolveScope(ctx, caller)
	if err != nil {
		return repository.RecordQuery{}, err
	}

	if employeeID != nil {
		ok, err := s.scopeService.CanAccessEmployee(ctx, caller, *employeeID)
		if err != nil {
			return repository.RecordQuery{}, err
		}
		if !ok {
			return repository.RecordQuery{}, domain.ErrForbidden
		}
		return repository.RecordQuery{ByEmployees: true, EmployeeIDs: []int64{*employeeID}}, nil
	}

	switch scope.Kind {
	case domain.ScopeAll:
		return repository.RecordQuery{}, nil
	case domain.ScopeDepartments:
		return repository.RecordQuery{ByEmployees: true, EmployeeIDs: scope.EmployeeIDs}, nil
	default:
		q := repository.RecordQuery{ByEmployees: true}
		if scope.SelfEmployeeID != nil {
			q.EmployeeIDs = []int64{*scope.SelfEmployeeID}
		}
		return q, nil
	}
}
