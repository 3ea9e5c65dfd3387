package service_test

import (
	"context"
	"sort"
	"time"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/repository"
)

type mockUserRepo struct {
	users   map[int64]*domain.User
	managed map[int64][]int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:   make(map[int64]*domain.User),
		managed: make(map[int64][]int64),
	}
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) ManagedDepartmentIDs(ctx context.Context, userID int64) ([]int64, error) {
	return m.managed[userID], nil
}

type mockDepartmentRepo struct {
	departments map[int64]*domain.Department
	nextID      int64
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{
		departments: make(map[int64]*domain.Department),
		nextID:      1,
	}
}

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *domain.Department, actorID int64) error {
	dept.ID = m.nextID
	dept.CreatedAt = time.Now()
	m.nextID++
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	if dept, ok := m.departments[id]; ok {
		return dept, nil
	}
	return nil, domain.ErrDepartmentNotFound
}

func (m *mockDepartmentRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(ids))
	for _, id := range ids {
		if dept, ok := m.departments[id]; ok {
			result = append(result, *dept)
		}
	}
	return result, nil
}

func (m *mockDepartmentRepo) List(ctx context.Context, activeOnly bool) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(m.departments))
	for _, dept := range m.departments {
		if activeOnly && !dept.IsActive {
			continue
		}
		result = append(result, *dept)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, dept *domain.Department, actorID int64) error {
	if _, ok := m.departments[dept.ID]; !ok {
		return domain.ErrDepartmentNotFound
	}
	m.departments[dept.ID] = dept
	return nil
}

func (m *mockDepartmentRepo) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.departments[id]; !ok {
		return domain.ErrDepartmentNotFound
	}
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentRepo) ExistsByNameAndParent(ctx context.Context, name string, parentID *int64, excludeID *int64) (bool, error) {
	for _, dept := range m.departments {
		if dept.Name != name {
			continue
		}
		sameParent := (parentID == nil && dept.ParentID == nil) ||
			(parentID != nil && dept.ParentID != nil && *parentID == *dept.ParentID)
		if sameParent && (excludeID == nil || dept.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentRepo) ChildIDs(ctx context.Context, parentIDs []int64) ([]int64, error) {
	parents := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var ids []int64
	for _, dept := range m.departments {
		if dept.ParentID != nil && parents[*dept.ParentID] {
			ids = append(ids, dept.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockDepartmentRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var count int64
	for _, dept := range m.departments {
		if dept.ParentID != nil && *dept.ParentID == id {
			count++
		}
	}
	return count, nil
}

type mockLocationRepo struct {
	locations map[int64]*domain.Location
	nextID    int64
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{
		locations: make(map[int64]*domain.Location),
		nextID:    1,
	}
}

func (m *mockLocationRepo) Create(ctx context.Context, loc *domain.Location, actorID int64) error {
	loc.ID = m.nextID
	loc.CreatedAt = time.Now()
	m.nextID++
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	if loc, ok := m.locations[id]; ok {
		return loc, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (m *mockLocationRepo) List(ctx context.Context, activeOnly bool) ([]domain.Location, error) {
	result := make([]domain.Location, 0, len(m.locations))
	for _, loc := range m.locations {
		if activeOnly && !loc.IsActive {
			continue
		}
		result = append(result, *loc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockLocationRepo) Update(ctx context.Context, loc *domain.Location, actorID int64) error {
	if _, ok := m.locations[loc.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockLocationRepo) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.locations[id]; !ok {
		return domain.ErrLocationNotFound
	}
	delete(m.locations, id)
	return nil
}

func (m *mockLocationRepo) ExistsByName(ctx context.Context, name string, excludeID *int64) (bool, error) {
	for _, loc := range m.locations {
		if loc.Name == name && (excludeID == nil || loc.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

type mockEmployeeRepo struct {
	employees map[int64]*domain.Employee
	nextID    int64
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{
		employees: make(map[int64]*domain.Employee),
		nextID:    1,
	}
}

func (m *mockEmployeeRepo) Create(ctx context.Context, emp *domain.Employee, actorID int64) error {
	emp.ID = m.nextID
	emp.CreatedAt = time.Now()
	m.nextID++
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	if emp, ok := m.employees[id]; ok {
		return emp, nil
	}
	return nil, domain.ErrEmployeeNotFound
}

func (m *mockEmployeeRepo) List(ctx context.Context, q repository.ListEmployeesQuery) ([]domain.Employee, error) {
	depts := make(map[int64]bool, len(q.DepartmentIDs))
	for _, id := range q.DepartmentIDs {
		depts[id] = true
	}
	ids := make(map[int64]bool, len(q.EmployeeIDs))
	for _, id := range q.EmployeeIDs {
		ids[id] = true
	}

	result := make([]domain.Employee, 0, len(m.employees))
	for _, emp := range m.employees {
		if q.ActiveOnly && !emp.IsActive {
			continue
		}
		if q.ByDepartments && !depts[emp.DepartmentID] {
			continue
		}
		if q.ByIDs && !ids[emp.ID] {
			continue
		}
		result = append(result, *emp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEmployeeRepo) ListByRequirementPairs(ctx context.Context, pairs []domain.RequirementPair, activeOnly bool) ([]domain.Employee, error) {
	match := make(map[domain.RequirementPair]bool, len(pairs))
	for _, p := range pairs {
		match[p] = true
	}

	result := make([]domain.Employee, 0)
	for _, emp := range m.employees {
		if activeOnly && !emp.IsActive {
			continue
		}
		if match[domain.RequirementPair{DepartmentID: emp.DepartmentID, LocationID: emp.LocationID}] {
			result = append(result, *emp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEmployeeRepo) IDsByDepartments(ctx context.Context, departmentIDs []int64) ([]int64, error) {
	depts := make(map[int64]bool, len(departmentIDs))
	for _, id := range departmentIDs {
		depts[id] = true
	}
	var ids []int64
	for _, emp := range m.employees {
		if depts[emp.DepartmentID] {
			ids = append(ids, emp.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, emp *domain.Employee, actorID int64) error {
	if _, ok := m.employees[emp.ID]; !ok {
		return domain.ErrEmployeeNotFound
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepo) UpdateNotes(ctx context.Context, id int64, notes string, actorID int64) (*domain.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	emp.Notes = notes
	return emp, nil
}

func (m *mockEmployeeRepo) DeleteCascade(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.employees[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	for _, emp := range m.employees {
		if emp.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (m *mockEmployeeRepo) CountByLocation(ctx context.Context, locationID int64) (int64, error) {
	var count int64
	for _, emp := range m.employees {
		if emp.LocationID == locationID {
			count++
		}
	}
	return count, nil
}

type mockTrainingRepo struct {
	trainings map[int64]*domain.Training
	nextID    int64
}

func newMockTrainingRepo() *mockTrainingRepo {
	return &mockTrainingRepo{
		trainings: make(map[int64]*domain.Training),
		nextID:    1,
	}
}

func (m *mockTrainingRepo) Create(ctx context.Context, training *domain.Training, actorID int64) error {
	training.ID = m.nextID
	training.CreatedAt = time.Now()
	m.nextID++
	for i := range training.Requirements {
		training.Requirements[i].TrainingID = training.ID
	}
	m.trainings[training.ID] = training
	return nil
}

func (m *mockTrainingRepo) CreatePair(ctx context.Context, first, second *domain.Training, actorID int64) error {
	if err := m.Create(ctx, first, actorID); err != nil {
		return err
	}
	return m.Create(ctx, second, actorID)
}

func (m *mockTrainingRepo) GetByID(ctx context.Context, id int64) (*domain.Training, error) {
	if t, ok := m.trainings[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTrainingNotFound
}

func (m *mockTrainingRepo) List(ctx context.Context, activeOnly bool) ([]domain.Training, error) {
	result := make([]domain.Training, 0, len(m.trainings))
	for _, t := range m.trainings {
		if activeOnly && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTrainingRepo) Update(ctx context.Context, training *domain.Training, replaceRequirements bool, actorID int64) error {
	if _, ok := m.trainings[training.ID]; !ok {
		return domain.ErrTrainingNotFound
	}
	m.trainings[training.ID] = training
	return nil
}

func (m *mockTrainingRepo) ConvertToPair(ctx context.Context, original, sibling *domain.Training, actorID int64) error {
	if _, ok := m.trainings[original.ID]; !ok {
		return domain.ErrTrainingNotFound
	}
	m.trainings[original.ID] = original
	return m.Create(ctx, sibling, actorID)
}

func (m *mockTrainingRepo) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.trainings[id]; !ok {
		return domain.ErrTrainingNotFound
	}
	delete(m.trainings, id)
	return nil
}

type mockTicketRepo struct {
	tickets map[int64]*domain.Ticket
	nextID  int64
}

func newMockTicketRepo() *mockTicketRepo {
	return &mockTicketRepo{
		tickets: make(map[int64]*domain.Ticket),
		nextID:  1,
	}
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket, actorID int64) error {
	ticket.ID = m.nextID
	ticket.CreatedAt = time.Now()
	m.nextID++
	for i := range ticket.Requirements {
		ticket.Requirements[i].TicketID = ticket.ID
	}
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	if t, ok := m.tickets[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTicketNotFound
}

func (m *mockTicketRepo) List(ctx context.Context, activeOnly bool) ([]domain.Ticket, error) {
	result := make([]domain.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		if activeOnly && !t.IsActive {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket, replaceRequirements bool, actorID int64) error {
	if _, ok := m.tickets[ticket.ID]; !ok {
		return domain.ErrTicketNotFound
	}
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *mockTicketRepo) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.tickets[id]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(m.tickets, id)
	return nil
}

type mockRecordRepo struct {
	trainingRecords map[int64]*domain.TrainingRecord
	ticketRecords   map[int64]*domain.TicketRecord
	nextID          int64
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{
		trainingRecords: make(map[int64]*domain.TrainingRecord),
		ticketRecords:   make(map[int64]*domain.TicketRecord),
		nextID:          1,
	}
}

func (m *mockRecordRepo) CreateTrainingRecord(ctx context.Context, rec *domain.TrainingRecord, actorID int64) error {
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	m.nextID++
	m.trainingRecords[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) CreateTicketRecord(ctx context.Context, rec *domain.TicketRecord, actorID int64) error {
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	m.nextID++
	m.ticketRecords[rec.ID] = rec
	return nil
}

func (m *mockRecordRepo) GetTrainingRecord(ctx context.Context, id int64) (*domain.TrainingRecord, error) {
	if rec, ok := m.trainingRecords[id]; ok {
		return rec, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockRecordRepo) GetTicketRecord(ctx context.Context, id int64) (*domain.TicketRecord, error) {
	if rec, ok := m.ticketRecords[id]; ok {
		return rec, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockRecordRepo) ListTrainingRecords(ctx context.Context, q repository.RecordQuery) ([]domain.TrainingRecord, error) {
	ids := make(map[int64]bool, len(q.EmployeeIDs))
	for _, id := range q.EmployeeIDs {
		ids[id] = true
	}
	result := make([]domain.TrainingRecord, 0)
	for _, rec := range m.trainingRecords {
		if q.ByEmployees && !ids[rec.EmployeeID] {
			continue
		}
		if q.SubjectID != nil && rec.TrainingID != *q.SubjectID {
			continue
		}
		result = append(result, *rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRecordRepo) ListTicketRecords(ctx context.Context, q repository.RecordQuery) ([]domain.TicketRecord, error) {
	ids := make(map[int64]bool, len(q.EmployeeIDs))
	for _, id := range q.EmployeeIDs {
		ids[id] = true
	}
	result := make([]domain.TicketRecord, 0)
	for _, rec := range m.ticketRecords {
		if q.ByEmployees && !ids[rec.EmployeeID] {
			continue
		}
		if q.SubjectID != nil && rec.TicketID != *q.SubjectID {
			continue
		}
		result = append(result, *rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockRecordRepo) TrainingRecordExists(ctx context.Context, employeeID, trainingID int64, completedAt time.Time) (bool, error) {
	for _, rec := range m.trainingRecords {
		if rec.EmployeeID == employeeID && rec.TrainingID == trainingID && rec.CompletedAt.Equal(completedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRecordRepo) TicketRecordExists(ctx context.Context, employeeID, ticketID int64, issuedAt time.Time) (bool, error) {
	for _, rec := range m.ticketRecords {
		if rec.EmployeeID == employeeID && rec.TicketID == ticketID && rec.IssuedAt.Equal(issuedAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRecordRepo) DeleteTrainingRecord(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.trainingRecords[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.trainingRecords, id)
	return nil
}

func (m *mockRecordRepo) DeleteTicketRecord(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.ticketRecords[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.ticketRecords, id)
	return nil
}

func (m *mockRecordRepo) CompletedEmployeeIDs(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time) ([]int64, error) {
	var ids []int64
	switch kind {
	case domain.SubjectTraining:
		for _, rec := range m.trainingRecords {
			if rec.TrainingID == subjectID && (rec.ExpiresAt == nil || !rec.ExpiresAt.Before(evalDate)) {
				ids = append(ids, rec.EmployeeID)
			}
		}
	case domain.SubjectTicket:
		for _, rec := range m.ticketRecords {
			if rec.TicketID == subjectID && (rec.ExpiresAt == nil || !rec.ExpiresAt.Before(evalDate)) {
				ids = append(ids, rec.EmployeeID)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *mockRecordRepo) CountByTraining(ctx context.Context, trainingID int64) (int64, error) {
	var count int64
	for _, rec := range m.trainingRecords {
		if rec.TrainingID == trainingID {
			count++
		}
	}
	return count, nil
}

func (m *mockRecordRepo) CountByTicket(ctx context.Context, ticketID int64) (int64, error) {
	var count int64
	for _, rec := range m.ticketRecords {
		if rec.TicketID == ticketID {
			count++
		}
	}
	return count, nil
}

type mockExemptionRepo struct {
	exemptions map[int64]*domain.Exemption
	nextID     int64
}

func newMockExemptionRepo() *mockExemptionRepo {
	return &mockExemptionRepo{
		exemptions: make(map[int64]*domain.Exemption),
		nextID:     1,
	}
}

func (m *mockExemptionRepo) Create(ctx context.Context, e *domain.Exemption, actorID int64) error {
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	m.nextID++
	m.exemptions[e.ID] = e
	return nil
}

func (m *mockExemptionRepo) GetByID(ctx context.Context, id int64) (*domain.Exemption, error) {
	if e, ok := m.exemptions[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExemptionNotFound
}

func (m *mockExemptionRepo) List(ctx context.Context, q repository.ExemptionQuery) ([]domain.Exemption, error) {
	ids := make(map[int64]bool, len(q.EmployeeIDs))
	for _, id := range q.EmployeeIDs {
		ids[id] = true
	}
	result := make([]domain.Exemption, 0)
	for _, e := range m.exemptions {
		if q.ByEmployees && !ids[e.EmployeeID] {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockExemptionRepo) Update(ctx context.Context, e *domain.Exemption, actorID int64) error {
	if _, ok := m.exemptions[e.ID]; !ok {
		return domain.ErrExemptionNotFound
	}
	m.exemptions[e.ID] = e
	return nil
}

func (m *mockExemptionRepo) Delete(ctx context.Context, id int64, actorID int64) error {
	if _, ok := m.exemptions[id]; !ok {
		return domain.ErrExemptionNotFound
	}
	delete(m.exemptions, id)
	return nil
}

func (m *mockExemptionRepo) ActiveExists(ctx context.Context, employeeID int64, kind domain.SubjectKind, subjectID int64) (bool, error) {
	for _, e := range m.exemptions {
		if e.EmployeeID == employeeID && e.Type == kind && e.Status == domain.ExemptionActive && exemptionSubjectID(e) == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockExemptionRepo) ExemptEmployeeIDs(ctx context.Context, kind domain.SubjectKind, subjectID int64, evalDate time.Time) ([]int64, error) {
	var ids []int64
	for _, e := range m.exemptions {
		if e.Type == kind && exemptionSubjectID(e) == subjectID && e.ActiveAt(evalDate) {
			ids = append(ids, e.EmployeeID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func exemptionSubjectID(e *domain.Exemption) int64 {
	if e.Type == domain.SubjectTraining && e.TrainingID != nil {
		return *e.TrainingID
	}
	if e.Type == domain.SubjectTicket && e.TicketID != nil {
		return *e.TicketID
	}
	return 0
}
