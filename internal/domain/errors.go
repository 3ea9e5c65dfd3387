package domain

import (
	"errors"
	"fmt"
)

// Определение бизнес-ошибок
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrLocationNotFound   = errors.New("location not found")
	ErrTrainingNotFound   = errors.New("training not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrRecordNotFound     = errors.New("completion record not found")
	ErrExemptionNotFound  = errors.New("exemption not found")

	ErrSubjectNotFound       = errors.New("requirement subject not found")
	ErrNoRequirementsDefined = errors.New("no requirements defined for subject")

	ErrDuplicateDepartmentName = errors.New("department with this name already exists in the same parent")
	ErrDuplicateLocationName   = errors.New("location with this name already exists")
	ErrDuplicateRecord         = errors.New("completion record for this employee, subject and date already exists")
	ErrDuplicateExemption      = errors.New("active exemption for this employee and subject already exists")

	ErrDepartmentDepth   = errors.New("department hierarchy is limited to two levels")
	ErrInvalidDateRange  = errors.New("end date must not be before start date")
	ErrInvalidSubjectRef = errors.New("exemption subject reference does not match its type")

	ErrForbidden        = errors.New("access to this record is forbidden")
	ErrNoLinkedEmployee = errors.New("no employee record linked to this user")
)

// DependencyError возникает при попытке удалить запись,
// на которую ссылаются зависимые строки
type DependencyError struct {
	Resource   string
	Dependency string
	Count      int64
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot delete %s: %d dependent %s exist", e.Resource, e.Count, e.Dependency)
}
