package service

import (
	"context"
	"strings"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// TicketService определяет интерфейс бизнес-логики для допусков
type TicketService interface {
	Create(ctx context.Context, caller domain.Caller, req *dto.CreateTicketRequest) (*domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Ticket, error)
	Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateTicketRequest) (*domain.Ticket, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
}

type ticketService struct {
	ticketRepo repository.TicketRepository
	recordRepo repository.RecordRepository
	deptRepo   repository.DepartmentRepository
	locRepo    repository.LocationRepository
}

// NewTicketService создаёт новый экземпляр сервиса
func NewTicketService(
	ticketRepo repository.TicketRepository,
	recordRepo repository.RecordRepository,
	deptRepo repository.DepartmentRepository,
	locRepo repository.LocationRepository,
) TicketService {
	return &ticketService{
		ticketRepo: ticketRepo,
		recordRepo: recordRepo,
		deptRepo:   deptRepo,
		locRepo:    locRepo,
	}
}

func (s *ticketService) Create(ctx context.Context, caller domain.Caller, req *dto.CreateTicketRequest) (*domain.Ticket, error) {
	if err := s.checkRequirementRefs(ctx, req.Requirements); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Name:         strings.TrimSpace(req.Name),
		IsActive:     true,
		Requirements: toTicketRequirementRows(0, req.Requirements),
	}

	if err := s.ticketRepo.Create(ctx, ticket, caller.UserID); err != nil {
		return nil, err
	}

	return ticket, nil
}

func (s *ticketService) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.ticketRepo.GetByID(ctx, id)
}

func (s *ticketService) List(ctx context.Context, activeOnly bool) ([]domain.Ticket, error) {
	return s.ticketRepo.List(ctx, activeOnly)
}

func (s *ticketService) Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateTicketRequest) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Requirements != nil {
		if err := s.checkRequirementRefs(ctx, *req.Requirements); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		ticket.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		ticket.IsActive = *req.IsActive
	}

	replaceReqs := req.Requirements != nil
	if replaceReqs {
		ticket.Requirements = toTicketRequirementRows(id, *req.Requirements)
	}

	if err := s.ticketRepo.Update(ctx, ticket, replaceReqs, caller.UserID); err != nil {
		return nil, err
	}

	return ticket, nil
}

// Delete отклоняет удаление, пока существуют записи о выдаче
func (s *ticketService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.ticketRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.recordRepo.CountByTicket(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.DependencyError{Resource: "ticket", Dependency: "issue records", Count: count}
	}

	return s.ticketRepo.Delete(ctx, id, caller.UserID)
}

func (s *ticketService) checkRequirementRefs(ctx context.Context, pairs []dto.RequirementPairRequest) error {
	for _, p := range pairs {
		if _, err := s.deptRepo.GetByID(ctx, p.DepartmentID); err != nil {
			return err
		}
		if _, err := s.locRepo.GetByID(ctx, p.LocationID); err != nil {
			return err
		}
	}
	return nil
}

func toTicketRequirementRows(ticketID int64, pairs []dto.RequirementPairRequest) []domain.TicketRequirement {
	rows := make([]domain.TicketRequirement, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, domain.TicketRequirement{
			TicketID:     ticketID,
			DepartmentID: p.DepartmentID,
			LocationID:   p.LocationID,
		})
	}
	return rows
}
