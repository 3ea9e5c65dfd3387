package service

import (
	"context"
	"time"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/repository"
)

// ReportService строит отчёты по требованиям: кто обязан иметь
// обучение или допуск и каков его статус на дату оценки
type ReportService interface {
	Reconcile(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time, includeInactive bool) ([]domain.EmployeeCompliance, error)
	ReconcileForCaller(ctx context.Context, caller domain.Caller, kind domain.SubjectKind, subjectID int64, evalDate time.Time, includeInactive bool) ([]domain.EmployeeCompliance, error)
}

type reportService struct {
	trainingRepo  repository.TrainingRepository
	ticketRepo    repository.TicketRepository
	empRepo       repository.EmployeeRepository
	recordRepo    repository.RecordRepository
	exemptionRepo repository.ExemptionRepository
	scopeService  ScopeService
}

// NewReportService создаёт новый экземпляр сервиса
func NewReportService(
	trainingRepo repository.TrainingRepository,
	ticketRepo repository.TicketRepository,
	empRepo repository.EmployeeRepository,
	recordRepo repository.RecordRepository,
	exemptionRepo repository.ExemptionRepository,
	scopeService ScopeService,
) ReportService {
	return &reportService{
		trainingRepo:  trainingRepo,
		ticketRepo:    ticketRepo,
		empRepo:       empRepo,
		recordRepo:    recordRepo,
		exemptionRepo: exemptionRepo,
		scopeService:  scopeService,
	}
}

// Reconcile вычисляет статус каждого обязанного сотрудника.
// Население отчёта - сотрудники, чья пара подразделение+локация совпадает
// хотя бы с одной строкой требования. Статус Exempted сильнее Completed:
// освобождение - явное административное решение
func (s *reportService) Reconcile(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time, includeInactive bool) ([]domain.EmployeeCompliance, error) {
	pairs, err := s.requirementPairs(ctx, kind, subjectID)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, domain.ErrNoRequirementsDefined
	}

	population, err := s.empRepo.ListByRequirementPairs(ctx, pairs, !includeInactive)
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.recordRepo.CompletedEmployeeIDs(ctx, kind, subjectID, evalDate)
	if err != nil {
		return nil, err
	}

	exemptIDs, err := s.exemptionRepo.ExemptEmployeeIDs(ctx, kind, subjectID, evalDate)
	if err != nil {
		return nil, err
	}

	completed := toSet(completedIDs)
	exempted := toSet(exemptIDs)

	result := make([]domain.EmployeeCompliance, 0, len(population))
	for _, emp := range population {
		status := domain.StatusRequired
		switch {
		case exempted[emp.ID]:
			status = domain.StatusExempted
		case completed[emp.ID]:
			status = domain.StatusCompleted
		}
		result = append(result, domain.EmployeeCompliance{Employee: emp, Status: status})
	}

	return result, nil
}

// ReconcileForCaller дополнительно сужает отчёт до области видимости
// вызывающего: руководитель видит только своих сотрудников
func (s *reportService) ReconcileForCaller(ctx context.Context, caller domain.Caller, kind domain.SubjectKind, subjectID int64, evalDate time.Time, includeInactive bool) ([]domain.EmployeeCompliance, error) {
	rows, err := s.Reconcile(ctx, kind, subjectID, evalDate, includeInactive)
	if err != nil {
		return nil, err
	}

	if caller.Role != domain.RoleDepartmentManager {
		return rows, nil
	}

	scope, err := s.scopeService.ResolveScope(ctx, caller)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.EmployeeCompliance, 0, len(rows))
	for _, row := range rows {
		if scope.ContainsDepartment(row.Employee.DepartmentID) {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

func (s *reportService) requirementPairs(ctx context.Context, kind domain.SubjectKind, subjectID int64) ([]domain.RequirementPair, error) {
	switch kind {
	case domain.SubjectTraining:
		training, err := s.trainingRepo.GetByID(ctx, subjectID)
		if err != nil {
			if err == domain.ErrTrainingNotFound {
				return nil, domain.ErrSubjectNotFound
			}
			return nil, err
		}
		pairs := make([]domain.RequirementPair, 0, len(training.Requirements))
		for _, req := range training.Requirements {
			pairs = append(pairs, domain.RequirementPair{DepartmentID: req.DepartmentID, LocationID: req.LocationID})
		}
		return pairs, nil

	case domain.SubjectTicket:
		ticket, err := s.ticketRepo.GetByID(ctx, subjectID)
		if err != nil {
			if err == domain.ErrTicketNotFound {
				return nil, domain.ErrSubjectNotFound
			}
			return nil, err
		}
		pairs := make([]domain.RequirementPair, 0, len(ticket.Requirements))
		for _, req := range ticket.Requirements {
			pairs = append(pairs, domain.RequirementPair{DepartmentID: req.DepartmentID, LocationID: req.LocationID})
		}
		return pairs, nil
	}

	return nil, domain.ErrSubjectNotFound
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
