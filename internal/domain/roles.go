package domain

// Role определяет роль пользователя в системе
type Role string

const (
	RoleAdmin             Role = "Admin"
	RoleDepartmentManager Role = "DepartmentManager"
	RoleFireWarden        Role = "FireWarden"
	RoleUser              Role = "User"
)

// SubjectKind определяет вид требования: обучение или допуск
type SubjectKind string

const (
	SubjectTraining SubjectKind = "Training"
	SubjectTicket   SubjectKind = "Ticket"
)

// TrainingCategory определяет категорию обучения
type TrainingCategory string

const (
	CategoryGeneral   TrainingCategory = "General"
	CategorySOP       TrainingCategory = "SOP"
	CategorySafety    TrainingCategory = "Safety"
	CategoryInduction TrainingCategory = "Induction"
)

// ExemptionStatus определяет статус освобождения
type ExemptionStatus string

const (
	ExemptionActive  ExemptionStatus = "Active"
	ExemptionRevoked ExemptionStatus = "Revoked"
)

// ComplianceStatus определяет статус сотрудника в отчёте по требованию
type ComplianceStatus string

const (
	StatusRequired  ComplianceStatus = "Required"
	StatusCompleted ComplianceStatus = "Completed"
	StatusExempted  ComplianceStatus = "Exempted"
)

// HistoryAction определяет вид изменения в журнале аудита
type HistoryAction string

const (
	ActionCreate HistoryAction = "CREATE"
	ActionUpdate HistoryAction = "UPDATE"
	ActionPatch  HistoryAction = "PATCH"
	ActionDelete HistoryAction = "DELETE"
)

// Caller представляет аутентифицированного вызывающего
type Caller struct {
	UserID int64
	Role   Role
}
