package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
)

// Суффиксы пары SOP-обучения
const (
	sopTaskSheetSuffix = " - Task Sheet"
	sopPracticalSuffix = " - Practical"
)

// TrainingService определяет интерфейс бизнес-логики для обучений.
// Обучение категории SOP всегда существует парой: вариант Task Sheet
// и вариант Practical с одинаковым набором требований
type TrainingService interface {
	Create(ctx context.Context, caller domain.Caller, req *dto.CreateTrainingRequest) ([]*domain.Training, error)
	GetByID(ctx context.Context, id int64) (*domain.Training, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Training, error)
	Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateTrainingRequest) ([]*domain.Training, error)
	Delete(ctx context.Context, caller domain.Caller, id int64) error
}

type trainingService struct {
	trainingRepo repository.TrainingRepository
	recordRepo   repository.RecordRepository
	deptRepo     repository.DepartmentRepository
	locRepo      repository.LocationRepository
}

// NewTrainingService создаёт новый экземпляр сервиса
func NewTrainingService(
	trainingRepo repository.TrainingRepository,
	recordRepo repository.RecordRepository,
	deptRepo repository.DepartmentRepository,
	locRepo repository.LocationRepository,
) TrainingService {
	return &trainingService{
		trainingRepo: trainingRepo,
		recordRepo:   recordRepo,
		deptRepo:     deptRepo,
		locRepo:      locRepo,
	}
}

func (s *trainingService) Create(ctx context.Context, caller domain.Caller, req *dto.CreateTrainingRequest) ([]*domain.Training, error) {
	title := strings.TrimSpace(req.Title)
	category := domain.TrainingCategory(req.Category)

	if err := s.checkRequirementRefs(ctx, req.Requirements); err != nil {
		return nil, err
	}

	if category == domain.CategorySOP {
		first := buildTraining(fmt.Sprintf("%s%s", title, sopTaskSheetSuffix), category, req.Requirements)
		second := buildTraining(fmt.Sprintf("%s%s", title, sopPracticalSuffix), category, req.Requirements)
		if err := s.trainingRepo.CreatePair(ctx, first, second, caller.UserID); err != nil {
			return nil, err
		}
		return []*domain.Training{first, second}, nil
	}

	training := buildTraining(title, category, req.Requirements)
	if err := s.trainingRepo.Create(ctx, training, caller.UserID); err != nil {
		return nil, err
	}
	return []*domain.Training{training}, nil
}

func (s *trainingService) GetByID(ctx context.Context, id int64) (*domain.Training, error) {
	return s.trainingRepo.GetByID(ctx, id)
}

func (s *trainingService) List(ctx context.Context, activeOnly bool) ([]domain.Training, error) {
	return s.trainingRepo.List(ctx, activeOnly)
}

func (s *trainingService) Update(ctx context.Context, caller domain.Caller, id int64, req *dto.UpdateTrainingRequest) ([]*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Requirements != nil {
		if err := s.checkRequirementRefs(ctx, *req.Requirements); err != nil {
			return nil, err
		}
	}

	// Перевод в категорию SOP превращает одиночную запись в пару
	if req.Category != nil &&
		domain.TrainingCategory(*req.Category) == domain.CategorySOP &&
		training.Category != domain.CategorySOP {
		return s.convertToSOP(ctx, caller, training, req)
	}

	if req.Title != nil {
		training.Title = strings.TrimSpace(*req.Title)
	}
	if req.Category != nil {
		training.Category = domain.TrainingCategory(*req.Category)
	}
	if req.IsActive != nil {
		training.IsActive = *req.IsActive
	}

	replaceReqs := req.Requirements != nil
	if replaceReqs {
		training.Requirements = toRequirementRows(id, *req.Requirements)
	}

	if err := s.trainingRepo.Update(ctx, training, replaceReqs, caller.UserID); err != nil {
		return nil, err
	}

	return []*domain.Training{training}, nil
}

// convertToSOP превращает исходную запись в вариант Task Sheet и создаёт
// рядом вариант Practical; строки требований копируются в обе записи
func (s *trainingService) convertToSOP(ctx context.Context, caller domain.Caller, training *domain.Training, req *dto.UpdateTrainingRequest) ([]*domain.Training, error) {
	baseTitle := training.Title
	if req.Title != nil {
		baseTitle = strings.TrimSpace(*req.Title)
	}

	pairs := make([]dto.RequirementPairRequest, 0, len(training.Requirements))
	if req.Requirements != nil {
		pairs = *req.Requirements
	} else {
		for _, r := range training.Requirements {
			pairs = append(pairs, dto.RequirementPairRequest{DepartmentID: r.DepartmentID, LocationID: r.LocationID})
		}
	}

	training.Title = fmt.Sprintf("%s%s", baseTitle, sopTaskSheetSuffix)
	training.Category = domain.CategorySOP
	if req.IsActive != nil {
		training.IsActive = *req.IsActive
	}

	sibling := buildTraining(fmt.Sprintf("%s%s", baseTitle, sopPracticalSuffix), domain.CategorySOP, pairs)
	sibling.IsActive = training.IsActive

	if err := s.trainingRepo.ConvertToPair(ctx, training, sibling, caller.UserID); err != nil {
		return nil, err
	}

	return []*domain.Training{training, sibling}, nil
}

// Delete отклоняет удаление, пока существуют записи о прохождении
func (s *trainingService) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.trainingRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.recordRepo.CountByTraining(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &domain.DependencyError{Resource: "training", Dependency: "completion records", Count: count}
	}

	return s.trainingRepo.Delete(ctx, id, caller.UserID)
}

func (s *trainingService) checkRequirementRefs(ctx context.Context, pairs []dto.RequirementPairRequest) error {
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

func buildTraining(title string, category domain.TrainingCategory, pairs []dto.RequirementPairRequest) *domain.Training {
	return &domain.Training{
		Title:        title,
		Category:     category,
		IsActive:     true,
		Requirements: toRequirementRows(0, pairs),
	}
}

func toRequirementRows(trainingID int64, pairs []dto.RequirementPairRequest) []domain.TrainingRequirement {
	rows := make([]domain.TrainingRequirement, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, domain.TrainingRequirement{
			TrainingID:   trainingID,
			DepartmentID: p.DepartmentID,
			LocationID:   p.LocationID,
		})
	}
	return rows
}
