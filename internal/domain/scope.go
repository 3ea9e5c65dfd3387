package domain

// ScopeKind определяет вид области видимости
type ScopeKind string

const (
	ScopeAll         ScopeKind = "all"
	ScopeDepartments ScopeKind = "departments"
	ScopeSelf        ScopeKind = "self"
)

// Scope описывает множество сотрудников, доступных вызывающему.
// Для руководителя без подразделений DepartmentIDs и EmployeeIDs пусты:
// это успешный пустой результат, а не отказ в доступе
type Scope struct {
	Kind           ScopeKind
	DepartmentIDs  []int64
	EmployeeIDs    []int64
	SelfEmployeeID *int64
}

// AllowsEmployee сообщает, входит ли сотрудник в область видимости.
// Для проверки доступа к конкретной записи область должна быть
// разрешена заново, а не взята из устаревшего снимка
func (s *Scope) AllowsEmployee(employeeID int64) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeDepartments:
		for _, id := range s.EmployeeIDs {
			if id == employeeID {
				return true
			}
		}
		return false
	case ScopeSelf:
		return s.SelfEmployeeID != nil && *s.SelfEmployeeID == employeeID
	}
	return false
}

// ContainsDepartment сообщает, входит ли подразделение в область видимости
func (s *Scope) ContainsDepartment(departmentID int64) bool {
	if s.Kind == ScopeAll {
		return true
	}
	for _, id := range s.DepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}
