package domain

import (
	"time"
)

// User представляет учётную запись пользователя портала
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(200);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(50);not null"`
	EmployeeID   *int64    `json:"employee_id" gorm:"index"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Employee *Employee `json:"-" gorm:"foreignKey:EmployeeID"`
}

// TableName задаёт имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// ManagedDepartment связывает руководителя с подразделением
type ManagedDepartment struct {
	ID           int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       int64 `json:"user_id" gorm:"not null;uniqueIndex:idx_managed_user_dept"`
	DepartmentID int64 `json:"department_id" gorm:"not null;uniqueIndex:idx_managed_user_dept"`
}

// TableName задаёт имя таблицы для GORM
func (ManagedDepartment) TableName() string {
	return "managed_departments"
}

// Department представляет подразделение. Иерархия строго двухуровневая:
// level 1 тогда и только тогда, когда указан родитель
type Department struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	ParentID  *int64    `json:"parent_department_id" gorm:"index"`
	Level     int       `json:"level" gorm:"not null;default:0"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Parent   *Department  `json:"-" gorm:"foreignKey:ParentID"`
	Children []Department `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

// TableName задаёт имя таблицы для GORM
func (Department) TableName() string {
	return "departments"
}

// Location представляет площадку/локацию
type Location struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Location) TableName() string {
	return "locations"
}

// Employee представляет сотрудника
type Employee struct {
	ID           int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName    string     `json:"first_name" gorm:"type:varchar(200);not null"`
	LastName     string     `json:"last_name" gorm:"type:varchar(200);not null"`
	Email        string     `json:"email" gorm:"type:varchar(200)"`
	Position     string     `json:"position" gorm:"type:varchar(200)"`
	DepartmentID int64      `json:"department_id" gorm:"not null;index"`
	LocationID   int64      `json:"location_id" gorm:"not null;index"`
	IsActive     bool       `json:"is_active" gorm:"not null;default:true"`
	StartDate    time.Time  `json:"start_date" gorm:"type:date;not null"`
	FinishDate   *time.Time `json:"finish_date" gorm:"type:date"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Department *Department `json:"-" gorm:"foreignKey:DepartmentID"`
	Location   *Location   `json:"-" gorm:"foreignKey:LocationID"`
}

// TableName задаёт имя таблицы для GORM
func (Employee) TableName() string {
	return "employees"
}

// Training представляет вид обучения
type Training struct {
	ID        int64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string           `json:"title" gorm:"type:varchar(200);not null"`
	Category  TrainingCategory `json:"category" gorm:"type:varchar(50);not null"`
	IsActive  bool             `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`

	Requirements []TrainingRequirement `json:"requirements,omitempty" gorm:"foreignKey:TrainingID"`
}

// TableName задаёт имя таблицы для GORM
func (Training) TableName() string {
	return "trainings"
}

// Ticket представляет вид допуска/сертификата
type Ticket struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"type:varchar(200);not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`

	Requirements []TicketRequirement `json:"requirements,omitempty" gorm:"foreignKey:TicketID"`
}

// TableName задаёт имя таблицы для GORM
func (Ticket) TableName() string {
	return "tickets"
}

// RequirementPair задаёт пару подразделение+локация, к которой привязано требование.
// Несколько пар одного требования образуют дизъюнкцию
type RequirementPair struct {
	DepartmentID int64 `json:"department_id"`
	LocationID   int64 `json:"location_id"`
}

// TrainingRequirement привязывает обучение к паре подразделение+локация
type TrainingRequirement struct {
	ID           int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	TrainingID   int64 `json:"training_id" gorm:"not null;index"`
	DepartmentID int64 `json:"department_id" gorm:"not null;index"`
	LocationID   int64 `json:"location_id" gorm:"not null;index"`
}

// TableName задаёт имя таблицы для GORM
func (TrainingRequirement) TableName() string {
	return "training_requirements"
}

// TicketRequirement привязывает допуск к паре подразделение+локация
type TicketRequirement struct {
	ID           int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	TicketID     int64 `json:"ticket_id" gorm:"not null;index"`
	DepartmentID int64 `json:"department_id" gorm:"not null;index"`
	LocationID   int64 `json:"location_id" gorm:"not null;index"`
}

// TableName задаёт имя таблицы для GORM
func (TicketRequirement) TableName() string {
	return "ticket_requirements"
}

// TrainingRecord представляет запись о пройденном обучении.
// Запись с nil ExpiresAt бессрочна
type TrainingRecord struct {
	ID              int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID      int64      `json:"employee_id" gorm:"not null;index"`
	TrainingID      int64      `json:"training_id" gorm:"not null;index"`
	CompletedAt     time.Time  `json:"completed_at" gorm:"type:date;not null"`
	ExpiresAt       *time.Time `json:"expires_at" gorm:"type:date"`
	CertificatePath *string    `json:"certificate_path" gorm:"type:varchar(500)"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (TrainingRecord) TableName() string {
	return "training_records"
}

// TicketRecord представляет запись о выданном допуске
type TicketRecord struct {
	ID              int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID      int64      `json:"employee_id" gorm:"not null;index"`
	TicketID        int64      `json:"ticket_id" gorm:"not null;index"`
	IssuedAt        time.Time  `json:"issued_at" gorm:"type:date;not null"`
	ExpiresAt       *time.Time `json:"expires_at" gorm:"type:date"`
	LicenceNumber   string     `json:"licence_number" gorm:"type:varchar(100)"`
	CertificatePath *string    `json:"certificate_path" gorm:"type:varchar(500)"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (TicketRecord) TableName() string {
	return "ticket_records"
}

// Exemption представляет освобождение сотрудника от требования.
// TrainingID и TicketID взаимоисключающие в зависимости от Type;
// nil EndDate означает бессрочное освобождение
type Exemption struct {
	ID         int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	EmployeeID int64           `json:"employee_id" gorm:"not null;index"`
	Type       SubjectKind     `json:"type" gorm:"type:varchar(50);not null"`
	TrainingID *int64          `json:"training_id" gorm:"index"`
	TicketID   *int64          `json:"ticket_id" gorm:"index"`
	StartDate  time.Time       `json:"start_date" gorm:"type:date;not null"`
	EndDate    *time.Time      `json:"end_date" gorm:"type:date"`
	Reason     string          `json:"reason" gorm:"type:text"`
	Status     ExemptionStatus `json:"status" gorm:"type:varchar(50);not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// TableName задаёт имя таблицы для GORM
func (Exemption) TableName() string {
	return "exemptions"
}

// ActiveAt сообщает, действует ли освобождение на указанную дату.
// Границы диапазона включительные
func (e *Exemption) ActiveAt(date time.Time) bool {
	if e.Status != ExemptionActive {
		return false
	}
	if e.StartDate.After(date) {
		return false
	}
	return e.EndDate == nil || !e.EndDate.Before(date)
}

// History представляет запись журнала аудита. Журнал только дополняется,
// записи никогда не изменяются и не удаляются
type History struct {
	ID            int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	TableName_    string        `json:"table_name" gorm:"column:table_name;type:varchar(100);not null;index:idx_history_table_record"`
	RecordID      string        `json:"record_id" gorm:"type:varchar(100);not null;index:idx_history_table_record"`
	Action        HistoryAction `json:"action" gorm:"type:varchar(20);not null"`
	OldValues     *string       `json:"old_values" gorm:"type:text"`
	NewValues     *string       `json:"new_values" gorm:"type:text"`
	ChangedFields *string       `json:"changed_fields" gorm:"type:text"`
	UserID        string        `json:"user_id" gorm:"type:varchar(100);not null"`
	Timestamp     time.Time     `json:"timestamp" gorm:"not null;index"`
}

// TableName задаёт имя таблицы для GORM
func (History) TableName() string {
	return "history"
}

// EmployeeCompliance представляет строку отчёта по требованию
type EmployeeCompliance struct {
	Employee Employee         `json:"employee"`
	Status   ComplianceStatus `json:"status"`
}
