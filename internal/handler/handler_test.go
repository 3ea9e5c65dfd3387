package handler_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hr-compliance-api/internal/auth"
	"github.com/hr-compliance-api/internal/config"
	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/handler"
	"github.com/hr-compliance-api/internal/repository"
	"github.com/hr-compliance-api/internal/service"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	router http.Handler
	db     *gorm.DB

	engineering *domain.Department
	maintenance *domain.Department
	hr          *domain.Department
	siteA       *domain.Location

	engineer   *domain.Employee
	mechanic   *domain.Employee
	recruiter  *domain.Employee
	adminToken string
	mgrToken   string
	userToken  string
}

// setupEnv поднимает полный стек на sqlite: админ, руководитель
// Engineering (с дочерним Maintenance) и обычный пользователь,
// привязанный к сотруднику engineer
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&domain.User{}, &domain.ManagedDepartment{}, &domain.Department{}, &domain.Location{},
		&domain.Employee{}, &domain.Training{}, &domain.TrainingRequirement{},
		&domain.Ticket{}, &domain.TicketRequirement{}, &domain.TrainingRecord{},
		&domain.TicketRecord{}, &domain.Exemption{}, &domain.History{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	locRepo := repository.NewLocationRepository(db)
	empRepo := repository.NewEmployeeRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	exemptionRepo := repository.NewExemptionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	scopeService := service.NewScopeService(userRepo, deptRepo, empRepo)
	authService := service.NewAuthService(userRepo, testSecret, time.Hour)
	empService := service.NewEmployeeService(empRepo, deptRepo, locRepo, scopeService)
	deptService := service.NewDepartmentService(deptRepo, empRepo)
	locService := service.NewLocationService(locRepo, empRepo)
	trainingService := service.NewTrainingService(trainingRepo, recordRepo, deptRepo, locRepo)
	ticketService := service.NewTicketService(ticketRepo, recordRepo, deptRepo, locRepo)
	recordService := service.NewRecordService(recordRepo, empRepo, trainingRepo, ticketRepo, scopeService)
	exemptionService := service.NewExemptionService(exemptionRepo, empRepo, trainingRepo, ticketRepo, scopeService)
	reportService := service.NewReportService(trainingRepo, ticketRepo, empRepo, recordRepo, exemptionRepo, scopeService)
	historyService := service.NewHistoryService(historyRepo)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", CORSOrigin: "http://localhost:3000"},
		Auth:   config.AuthConfig{SessionSecret: testSecret, TokenTTL: time.Hour},
	}

	router := handler.NewRouter(cfg, handler.Handlers{
		Auth:       handler.NewAuthHandler(authService, logger),
		Employee:   handler.NewEmployeeHandler(empService, logger),
		Department: handler.NewDepartmentHandler(deptService, logger),
		Location:   handler.NewLocationHandler(locService, logger),
		Training:   handler.NewTrainingHandler(trainingService, logger),
		Ticket:     handler.NewTicketHandler(ticketService, logger),
		Record:     handler.NewRecordHandler(recordService, logger),
		Exemption:  handler.NewExemptionHandler(exemptionService, logger),
		Report:     handler.NewReportHandler(reportService, logger),
		History:    handler.NewHistoryHandler(historyService, logger),
	}, logger)

	env := &testEnv{router: router, db: db}
	env.seed(t)
	return env
}

func (e *testEnv) seed(t *testing.T) {
	t.Helper()

	e.engineering = &domain.Department{Name: "Engineering", IsActive: true}
	mustCreate(t, e.db, e.engineering)
	e.maintenance = &domain.Department{Name: "Maintenance", ParentID: &e.engineering.ID, Level: 1, IsActive: true}
	mustCreate(t, e.db, e.maintenance)
	e.hr = &domain.Department{Name: "HR", IsActive: true}
	mustCreate(t, e.db, e.hr)
	e.siteA = &domain.Location{Name: "Site A", IsActive: true}
	mustCreate(t, e.db, e.siteA)

	start := time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)
	e.engineer = &domain.Employee{FirstName: "Erin", LastName: "Adams", DepartmentID: e.engineering.ID, LocationID: e.siteA.ID, IsActive: true, StartDate: start}
	mustCreate(t, e.db, e.engineer)
	e.mechanic = &domain.Employee{FirstName: "Mark", LastName: "Bell", DepartmentID: e.maintenance.ID, LocationID: e.siteA.ID, IsActive: true, StartDate: start}
	mustCreate(t, e.db, e.mechanic)
	e.recruiter = &domain.Employee{FirstName: "Rita", LastName: "Cole", DepartmentID: e.hr.ID, LocationID: e.siteA.ID, IsActive: true, StartDate: start}
	mustCreate(t, e.db, e.recruiter)

	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	admin := &domain.User{Email: "admin@example.com", PasswordHash: hash, Role: domain.RoleAdmin, IsActive: true}
	mustCreate(t, e.db, admin)
	manager := &domain.User{Email: "manager@example.com", PasswordHash: hash, Role: domain.RoleDepartmentManager, IsActive: true}
	mustCreate(t, e.db, manager)
	mustCreate(t, e.db, &domain.ManagedDepartment{UserID: manager.ID, DepartmentID: e.engineering.ID})
	regular := &domain.User{Email: "erin@example.com", PasswordHash: hash, Role: domain.RoleUser, EmployeeID: &e.engineer.ID, IsActive: true}
	mustCreate(t, e.db, regular)

	e.adminToken = mustSign(t, admin.ID, domain.RoleAdmin)
	e.mgrToken = mustSign(t, manager.ID, domain.RoleDepartmentManager)
	e.userToken = mustSign(t, regular.ID, domain.RoleUser)
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("failed to seed %T: %v", v, err)
	}
}

func mustSign(t *testing.T, userID int64, role domain.Role) string {
	t.Helper()
	token, err := auth.SignToken(testSecret, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func TestLogin(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "admin@example.com", Password: "correct-horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[dto.LoginResponse](t, rec)
	if resp.Token == "" {
		t.Error("successful login must return a token")
	}
	if resp.User.Role != domain.RoleAdmin {
		t.Errorf("expected role Admin, got %s", resp.User.Role)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "admin@example.com", Password: "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", rec.Code)
	}
	errResp := decodeBody[dto.ErrorResponse](t, rec)
	if errResp.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected INVALID_CREDENTIALS, got %q", errResp.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "nobody@example.com", Password: "correct-horse",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: expected 401, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/employees", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with a garbage token, got %d", rec.Code)
	}
}

func TestAdminOnlyMutations(t *testing.T) {
	env := setupEnv(t)

	body := dto.CreateEmployeeRequest{
		FirstName: "New", LastName: "Hire",
		DepartmentID: env.engineering.ID, LocationID: env.siteA.ID,
		StartDate: "2026-01-15",
	}

	rec := env.do(t, http.MethodPost, "/api/employees", env.userToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("regular user: expected 403, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/employees", env.mgrToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager: expected 403, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/employees", env.adminToken, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[dto.EmployeeResponse](t, rec)
	if created.ID == 0 || created.FirstName != "New" {
		t.Error("created employee must be returned")
	}
}

func TestEmployeeListScoping(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/employees", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
	if got := decodeBody[[]dto.EmployeeResponse](t, rec); len(got) != 3 {
		t.Errorf("admin must see all 3 employees, got %d", len(got))
	}

	// Руководитель Engineering видит и дочернее Maintenance, но не HR
	rec = env.do(t, http.MethodGet, "/api/employees", env.mgrToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager: expected 200, got %d", rec.Code)
	}
	managerView := decodeBody[[]dto.EmployeeResponse](t, rec)
	if len(managerView) != 2 {
		t.Fatalf("manager must see 2 employees, got %d", len(managerView))
	}
	for _, emp := range managerView {
		if emp.ID == env.recruiter.ID {
			t.Error("manager must not see the HR employee")
		}
	}

	rec = env.do(t, http.MethodGet, "/api/employees", env.userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("user: expected 200, got %d", rec.Code)
	}
	selfView := decodeBody[[]dto.EmployeeResponse](t, rec)
	if len(selfView) != 1 || selfView[0].ID != env.engineer.ID {
		t.Error("regular user must see only their own record")
	}
}

func TestEmployeeGetOutsideScopeIsForbidden(t *testing.T) {
	env := setupEnv(t)

	path := "/api/employees/" + itoa(env.recruiter.ID)
	rec := env.do(t, http.MethodGet, path, env.mgrToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager reading an HR employee: expected 403, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, path, env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin: expected 200, got %d", rec.Code)
	}
}

func TestNotesSelfService(t *testing.T) {
	env := setupEnv(t)

	// Пользователь может править заметки только своей записи
	ownPath := "/api/employees/" + itoa(env.engineer.ID) + "/notes"
	rec := env.do(t, http.MethodPatch, ownPath, env.userToken, dto.UpdateNotesRequest{Notes: "prefers early shifts"})
	if rec.Code != http.StatusOK {
		t.Fatalf("own notes: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[dto.EmployeeResponse](t, rec)
	if updated.Notes != "prefers early shifts" {
		t.Errorf("notes not updated, got %q", updated.Notes)
	}

	otherPath := "/api/employees/" + itoa(env.mechanic.ID) + "/notes"
	rec = env.do(t, http.MethodPatch, otherPath, env.userToken, dto.UpdateNotesRequest{Notes: "x"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign notes: expected 403, got %d", rec.Code)
	}
}

func TestReportEndpoint(t *testing.T) {
	env := setupEnv(t)

	// Обучение, требуемое для Engineering и HR на Site A
	created := env.do(t, http.MethodPost, "/api/trainings", env.adminToken, dto.CreateTrainingRequest{
		Title:    "Fire Safety",
		Category: "Safety",
		Requirements: []dto.RequirementPairRequest{
			{DepartmentID: env.engineering.ID, LocationID: env.siteA.ID},
			{DepartmentID: env.hr.ID, LocationID: env.siteA.ID},
		},
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("failed to create training: %d: %s", created.Code, created.Body.String())
	}
	trainings := decodeBody[[]dto.TrainingResponse](t, created)
	trainingID := trainings[0].ID

	// Обычному пользователю отчёты недоступны
	path := "/api/reports/training-needs/" + itoa(trainingID)
	rec := env.do(t, http.MethodGet, path, env.userToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("regular user: expected 403, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, path+"?date=2026-06-01", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin report: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rows := decodeBody[[]dto.ComplianceRowResponse](t, rec)
	if len(rows) != 2 {
		t.Fatalf("expected 2 obliged employees, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Status != domain.StatusRequired {
			t.Errorf("no records seeded: expected Required, got %s", row.Status)
		}
	}

	// Руководитель видит только сотрудника Engineering
	rec = env.do(t, http.MethodGet, path+"?date=2026-06-01", env.mgrToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager report: expected 200, got %d", rec.Code)
	}
	managerRows := decodeBody[[]dto.ComplianceRowResponse](t, rec)
	if len(managerRows) != 1 || managerRows[0].Employee.ID != env.engineer.ID {
		t.Error("manager report must be narrowed to managed departments")
	}

	rec = env.do(t, http.MethodGet, "/api/reports/training-needs/9999", env.adminToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown subject: expected 404, got %d", rec.Code)
	}
	errResp := decodeBody[dto.ErrorResponse](t, rec)
	if errResp.Code != "SUBJECT_NOT_FOUND" {
		t.Errorf("expected SUBJECT_NOT_FOUND, got %q", errResp.Code)
	}
}

func TestHistoryEndpointIsAdminOnly(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/history", env.mgrToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("manager: expected 403, got %d", rec.Code)
	}

	// Мутация оставляет след в журнале
	env.do(t, http.MethodPost, "/api/locations", env.adminToken, dto.CreateLocationRequest{Name: "Site B"})

	rec = env.do(t, http.MethodGet, "/api/history?table=locations", env.adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", rec.Code)
	}
	rows := decodeBody[[]dto.HistoryResponse](t, rec)
	if len(rows) != 1 || rows[0].Action != domain.ActionCreate {
		t.Errorf("expected one CREATE row for locations, got %d rows", len(rows))
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
