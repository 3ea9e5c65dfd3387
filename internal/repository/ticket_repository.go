package repository

import (
	"context"

	"github.com/hr-compliance-api/internal/audit"
	"github.com/hr-compliance-api/internal/domain"
	"gorm.io/gorm"
)

// TicketRepository определяет интерфейс для работы с допусками
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket, actorID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket, replaceRequirements bool, actorID int64) error
	Delete(ctx context.Context, id int64, actorID int64) error
}

type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository создаёт новый экземпляр репозитория
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(ticket.TableName(), ticket.ID, domain.ActionCreate, nil, ticket, actorID)).Error
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.db.WithContext(ctx).Preload("Requirements").First(&ticket, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, activeOnly bool) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	query := r.db.WithContext(ctx).Preload("Requirements").Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket, replaceRequirements bool, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Ticket
		if err := tx.Preload("Requirements").First(&old, ticket.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrTicketNotFound
			}
			return err
		}

		if replaceRequirements {
			if err := tx.Where("ticket_id = ?", ticket.ID).Delete(&domain.TicketRequirement{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Omit("Requirements").Save(ticket).Error; err != nil {
			return err
		}

		if replaceRequirements && len(ticket.Requirements) > 0 {
			if err := tx.Create(&ticket.Requirements).Error; err != nil {
				return err
			}
		}

		return tx.Create(audit.Entry(ticket.TableName(), ticket.ID, domain.ActionUpdate, &old, ticket, actorID)).Error
	})
}

func (r *ticketRepository) Delete(ctx context.Context, id int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old domain.Ticket
		if err := tx.Preload("Requirements").First(&old, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrTicketNotFound
			}
			return err
		}
		if err := tx.Where("ticket_id = ?", id).Delete(&domain.TicketRequirement{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Ticket{}, id).Error; err != nil {
			return err
		}
		return tx.Create(audit.Entry(old.TableName(), id, domain.ActionDelete, &old, nil, actorID)).Error
	})
}
