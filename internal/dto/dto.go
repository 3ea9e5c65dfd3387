package dto

import (
	"time"

	"github.com/hr-compliance-api/internal/domain"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse - ответ с сессионным токеном
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse - данные пользователя без чувствительных полей
type UserResponse struct {
	ID         int64       `json:"id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	EmployeeID *int64      `json:"employee_id,omitempty"`
}

// CreateEmployeeRequest - запрос на создание сотрудника
type CreateEmployeeRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=200"`
	LastName     string  `json:"last_name" validate:"required,min=1,max=200"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Position     string  `json:"position" validate:"omitempty,max=200"`
	DepartmentID int64   `json:"department_id" validate:"required,min=1"`
	LocationID   int64   `json:"location_id" validate:"required,min=1"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	FinishDate   *string `json:"finish_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string  `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateEmployeeRequest - запрос на полное обновление сотрудника
type UpdateEmployeeRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=200"`
	LastName     string  `json:"last_name" validate:"required,min=1,max=200"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Position     string  `json:"position" validate:"omitempty,max=200"`
	DepartmentID int64   `json:"department_id" validate:"required,min=1"`
	LocationID   int64   `json:"location_id" validate:"required,min=1"`
	IsActive     *bool   `json:"is_active" validate:"required"`
	StartDate    string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	FinishDate   *string `json:"finish_date" validate:"omitempty,datetime=2006-01-02"`
	Notes        string  `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateNotesRequest - запрос на изменение заметок собственной записи
type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// EmployeeResponse - ответ с данными сотрудника
type EmployeeResponse struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email,omitempty"`
	Position     string    `json:"position,omitempty"`
	DepartmentID int64     `json:"department_id"`
	LocationID   int64     `json:"location_id"`
	IsActive     bool      `json:"is_active"`
	StartDate    string    `json:"start_date"`
	FinishDate   *string   `json:"finish_date,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateDepartmentRequest - запрос на создание подразделения
type CreateDepartmentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	ParentID *int64 `json:"parent_department_id" validate:"omitempty,min=1"`
}

// UpdateDepartmentRequest - запрос на обновление подразделения
type UpdateDepartmentRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	ParentID *int64  `json:"parent_department_id" validate:"omitempty,min=1"`
	IsActive *bool   `json:"is_active"`
}

// DepartmentResponse - ответ с данными подразделения
type DepartmentResponse struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	ParentID  *int64               `json:"parent_department_id"`
	Level     int                  `json:"level"`
	IsActive  bool                 `json:"is_active"`
	CreatedAt time.Time            `json:"created_at"`
	Children  []DepartmentResponse `json:"children,omitempty"`
}

// CreateLocationRequest - запрос на создание локации
type CreateLocationRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateLocationRequest - запрос на обновление локации
type UpdateLocationRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	IsActive *bool   `json:"is_active"`
}

// LocationResponse - ответ с данными локации
type LocationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RequirementPairRequest - пара подразделение+локация требования
type RequirementPairRequest struct {
	DepartmentID int64 `json:"department_id" validate:"required,min=1"`
	LocationID   int64 `json:"location_id" validate:"required,min=1"`
}

// CreateTrainingRequest - запрос на создание обучения
type CreateTrainingRequest struct {
	Title        string                   `json:"title" validate:"required,min=1,max=200"`
	Category     string                   `json:"category" validate:"required,oneof=General SOP Safety Induction"`
	Requirements []RequirementPairRequest `json:"requirements" validate:"omitempty,dive"`
}

// UpdateTrainingRequest - запрос на обновление обучения
type UpdateTrainingRequest struct {
	Title        *string                   `json:"title" validate:"omitempty,min=1,max=200"`
	Category     *string                   `json:"category" validate:"omitempty,oneof=General SOP Safety Induction"`
	IsActive     *bool                     `json:"is_active"`
	Requirements *[]RequirementPairRequest `json:"requirements" validate:"omitempty,dive"`
}

// TrainingResponse - ответ с данными обучения
type TrainingResponse struct {
	ID           int64                    `json:"id"`
	Title        string                   `json:"title"`
	Category     domain.TrainingCategory  `json:"category"`
	IsActive     bool                     `json:"is_active"`
	CreatedAt    time.Time                `json:"created_at"`
	Requirements []domain.RequirementPair `json:"requirements"`
}

// CreateTicketRequest - запрос на создание допуска
type CreateTicketRequest struct {
	Name         string                   `json:"name" validate:"required,min=1,max=200"`
	Requirements []RequirementPairRequest `json:"requirements" validate:"omitempty,dive"`
}

// UpdateTicketRequest - запрос на обновление допуска
type UpdateTicketRequest struct {
	Name         *string                   `json:"name" validate:"omitempty,min=1,max=200"`
	IsActive     *bool                     `json:"is_active"`
	Requirements *[]RequirementPairRequest `json:"requirements" validate:"omitempty,dive"`
}

// TicketResponse - ответ с данными допуска
type TicketResponse struct {
	ID           int64                    `json:"id"`
	Name         string                   `json:"name"`
	IsActive     bool                     `json:"is_active"`
	CreatedAt    time.Time                `json:"created_at"`
	Requirements []domain.RequirementPair `json:"requirements"`
}

// CreateTrainingRecordRequest - запрос на создание записи об обучении
type CreateTrainingRecordRequest struct {
	EmployeeID      int64   `json:"employee_id" validate:"required,min=1"`
	TrainingID      int64   `json:"training_id" validate:"required,min=1"`
	CompletedAt     string  `json:"completed_at" validate:"required,datetime=2006-01-02"`
	ExpiresAt       *string `json:"expires_at" validate:"omitempty,datetime=2006-01-02"`
	CertificatePath *string `json:"certificate_path" validate:"omitempty,max=500"`
}

// CreateTicketRecordRequest - запрос на создание записи о допуске
type CreateTicketRecordRequest struct {
	EmployeeID      int64   `json:"employee_id" validate:"required,min=1"`
	TicketID        int64   `json:"ticket_id" validate:"required,min=1"`
	IssuedAt        string  `json:"issued_at" validate:"required,datetime=2006-01-02"`
	ExpiresAt       *string `json:"expires_at" validate:"omitempty,datetime=2006-01-02"`
	LicenceNumber   string  `json:"licence_number" validate:"omitempty,max=100"`
	CertificatePath *string `json:"certificate_path" validate:"omitempty,max=500"`
}

// TrainingRecordResponse - ответ с записью об обучении
type TrainingRecordResponse struct {
	ID              int64   `json:"id"`
	EmployeeID      int64   `json:"employee_id"`
	TrainingID      int64   `json:"training_id"`
	CompletedAt     string  `json:"completed_at"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	CertificatePath *string `json:"certificate_path,omitempty"`
}

// TicketRecordResponse - ответ с записью о допуске
type TicketRecordResponse struct {
	ID              int64   `json:"id"`
	EmployeeID      int64   `json:"employee_id"`
	TicketID        int64   `json:"ticket_id"`
	IssuedAt        string  `json:"issued_at"`
	ExpiresAt       *string `json:"expires_at,omitempty"`
	LicenceNumber   string  `json:"licence_number,omitempty"`
	CertificatePath *string `json:"certificate_path,omitempty"`
}

// CreateExemptionRequest - запрос на создание освобождения
type CreateExemptionRequest struct {
	EmployeeID int64   `json:"employee_id" validate:"required,min=1"`
	Type       string  `json:"type" validate:"required,oneof=Training Ticket"`
	TrainingID *int64  `json:"training_id" validate:"omitempty,min=1"`
	TicketID   *int64  `json:"ticket_id" validate:"omitempty,min=1"`
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Reason     string  `json:"reason" validate:"omitempty,max=2000"`
}

// ExemptionResponse - ответ с данными освобождения
type ExemptionResponse struct {
	ID         int64                  `json:"id"`
	EmployeeID int64                  `json:"employee_id"`
	Type       domain.SubjectKind     `json:"type"`
	TrainingID *int64                 `json:"training_id,omitempty"`
	TicketID   *int64                 `json:"ticket_id,omitempty"`
	StartDate  string                 `json:"start_date"`
	EndDate    *string                `json:"end_date,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
	Status     domain.ExemptionStatus `json:"status"`
}

// ComplianceRowResponse - строка отчёта по требованию
type ComplianceRowResponse struct {
	Employee EmployeeResponse        `json:"employee"`
	Status   domain.ComplianceStatus `json:"status"`
}

// HistoryResponse - запись журнала аудита
type HistoryResponse struct {
	ID            int64                `json:"id"`
	TableName     string               `json:"table_name"`
	RecordID      string               `json:"record_id"`
	Action        domain.HistoryAction `json:"action"`
	OldValues     *string              `json:"old_values"`
	NewValues     *string              `json:"new_values"`
	ChangedFields *string              `json:"changed_fields"`
	UserID        string               `json:"user_id"`
	Timestamp     time.Time            `json:"timestamp"`
}

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
