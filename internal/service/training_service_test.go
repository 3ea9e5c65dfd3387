package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/service"
)

type trainingFixture struct {
	trainingRepo *mockTrainingRepo
	recordRepo   *mockRecordRepo
	deptRepo     *mockDepartmentRepo
	locRepo      *mockLocationRepo
	svc          service.TrainingService
	dept         *domain.Department
	loc          *domain.Location
}

func newTrainingFixture(t *testing.T) *trainingFixture {
	t.Helper()
	f := &trainingFixture{
		trainingRepo: newMockTrainingRepo(),
		recordRepo:   newMockRecordRepo(),
		deptRepo:     newMockDepartmentRepo(),
		locRepo:      newMockLocationRepo(),
	}
	f.svc = service.NewTrainingService(f.trainingRepo, f.recordRepo, f.deptRepo, f.locRepo)

	ctx := context.Background()
	f.dept = &domain.Department{Name: "Warehouse", IsActive: true}
	f.deptRepo.Create(ctx, f.dept, 1)
	f.loc = &domain.Location{Name: "Site A", IsActive: true}
	f.locRepo.Create(ctx, f.loc, 1)
	return f
}

func TestCreateSOPTrainingProducesPair(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	created, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Forklift",
		Category: "SOP",
		Requirements: []dto.RequirementPairRequest{
			{DepartmentID: f.dept.ID, LocationID: f.loc.ID},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("SOP training must produce exactly two records, got %d", len(created))
	}

	if created[0].Title != "Forklift - Task Sheet" {
		t.Errorf("first record: expected %q, got %q", "Forklift - Task Sheet", created[0].Title)
	}
	if created[1].Title != "Forklift - Practical" {
		t.Errorf("second record: expected %q, got %q", "Forklift - Practical", created[1].Title)
	}

	for _, tr := range created {
		if tr.Category != domain.CategorySOP {
			t.Errorf("%q: expected category SOP, got %s", tr.Title, tr.Category)
		}
		if len(tr.Requirements) != 1 ||
			tr.Requirements[0].DepartmentID != f.dept.ID ||
			tr.Requirements[0].LocationID != f.loc.ID {
			t.Errorf("%q: both records must carry the same requirements", tr.Title)
		}
		if tr.ID == 0 {
			t.Errorf("%q: expected a persisted record", tr.Title)
		}
	}
	if created[0].ID == created[1].ID {
		t.Error("pair records must be distinct rows")
	}
}

func TestCreateGeneralTrainingIsSingle(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	created, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Manual Handling",
		Category: "General",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("non-SOP training must be a single record, got %d", len(created))
	}
	if created[0].Title != "Manual Handling" {
		t.Errorf("title must be untouched, got %q", created[0].Title)
	}
}

func TestUpdateToSOPConvertsIntoPair(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	created, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Crane Operation",
		Category: "General",
		Requirements: []dto.RequirementPairRequest{
			{DepartmentID: f.dept.ID, LocationID: f.loc.ID},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	original := created[0]

	sop := "SOP"
	updated, err := f.svc.Update(ctx, admin, original.ID, &dto.UpdateTrainingRequest{Category: &sop})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("conversion to SOP must yield a pair, got %d records", len(updated))
	}

	if updated[0].ID != original.ID {
		t.Error("original record must be mutated in place, not replaced")
	}
	if updated[0].Title != "Crane Operation - Task Sheet" {
		t.Errorf("original becomes the Task Sheet variant, got %q", updated[0].Title)
	}
	if updated[1].Title != "Crane Operation - Practical" {
		t.Errorf("sibling becomes the Practical variant, got %q", updated[1].Title)
	}

	// Требования копируются в обе записи
	sibling, err := f.trainingRepo.GetByID(ctx, updated[1].ID)
	if err != nil {
		t.Fatalf("sibling not persisted: %v", err)
	}
	if len(sibling.Requirements) != 1 || sibling.Requirements[0].DepartmentID != f.dept.ID {
		t.Error("sibling must inherit the original's requirements")
	}
}

func TestUpdateTrainingReplacesRequirements(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	otherDept := &domain.Department{Name: "Logistics", IsActive: true}
	f.deptRepo.Create(ctx, otherDept, 1)

	created, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Fire Safety",
		Category: "Safety",
		Requirements: []dto.RequirementPairRequest{
			{DepartmentID: f.dept.ID, LocationID: f.loc.ID},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reqs := []dto.RequirementPairRequest{{DepartmentID: otherDept.ID, LocationID: f.loc.ID}}
	updated, err := f.svc.Update(ctx, admin, created[0].ID, &dto.UpdateTrainingRequest{Requirements: &reqs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated[0].Requirements) != 1 || updated[0].Requirements[0].DepartmentID != otherDept.ID {
		t.Error("requirements must be replaced wholesale")
	}
}

func TestDeleteTrainingBlockedByRecords(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	created, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Working at Heights",
		Category: "Safety",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	training := created[0]

	f.recordRepo.CreateTrainingRecord(ctx, &domain.TrainingRecord{
		EmployeeID: 1, TrainingID: training.ID, CompletedAt: date(2026, 1, 1),
	}, 1)

	err = f.svc.Delete(ctx, admin, training.ID)
	var depErr *domain.DependencyError
	if !errors.As(err, &depErr) {
		t.Fatalf("expected DependencyError, got %v", err)
	}
	if depErr.Count != 1 {
		t.Errorf("expected dependent count 1, got %d", depErr.Count)
	}

	if _, err := f.trainingRepo.GetByID(ctx, training.ID); err != nil {
		t.Error("blocked delete must leave the training in place")
	}
}

func TestDeleteTrainingWithoutRecords(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	created, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Obsolete Course",
		Category: "General",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(ctx, admin, created[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.trainingRepo.GetByID(ctx, created[0].ID); !errors.Is(err, domain.ErrTrainingNotFound) {
		t.Error("training must be gone after delete")
	}
}

func TestCreateTrainingRejectsUnknownDepartment(t *testing.T) {
	f := newTrainingFixture(t)
	ctx := context.Background()
	admin := domain.Caller{UserID: 1, Role: domain.RoleAdmin}

	_, err := f.svc.Create(ctx, admin, &dto.CreateTrainingRequest{
		Title:    "Ghost Course",
		Category: "General",
		Requirements: []dto.RequirementPairRequest{
			{DepartmentID: 999, LocationID: f.loc.ID},
		},
	})
	if !errors.Is(err, domain.ErrDepartmentNotFound) {
		t.Errorf("expected ErrDepartmentNotFound, got %v", err)
	}
}
