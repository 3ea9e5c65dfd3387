package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
)

// Машиночитаемые коды ошибок API
const (
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeForbidden          = "FORBIDDEN"
	codeNotFound           = "NOT_FOUND"
	codeSubjectNotFound    = "SUBJECT_NOT_FOUND"
	codeNoRequirements     = "NO_REQUIREMENTS_DEFINED"
	codeDuplicate          = "DUPLICATE"
	codeHasDependents      = "HAS_DEPENDENTS"
	codeDepartmentDepth    = "DEPARTMENT_DEPTH"
	codeInvalidDateRange   = "INVALID_DATE_RANGE"
	codeInvalidSubjectRef  = "INVALID_SUBJECT"
	codeNoLinkedEmployee   = "NO_LINKED_EMPLOYEE"
	codeValidation         = "VALIDATION"
	codeBadRequest         = "BAD_REQUEST"
)

func respondJSON(logger *slog.Logger, w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, status int, code, errMsg, details string) {
	w.WriteHeader(status)
	resp := dto.ErrorResponse{Error: errMsg, Code: code}
	if details != "" {
		resp.Message = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}

// handleServiceError переводит бизнес-ошибки в HTTP статусы и коды.
// Ошибки авторизации и отсутствия записи различаются всюду
func handleServiceError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var depErr *domain.DependencyError
	if errors.As(err, &depErr) {
		respondError(logger, w, http.StatusConflict, codeHasDependents, depErr.Error(), "")
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(logger, w, http.StatusUnauthorized, codeInvalidCredentials, "invalid credentials", "")
	case errors.Is(err, domain.ErrForbidden):
		respondError(logger, w, http.StatusForbidden, codeForbidden, "forbidden", "")
	case errors.Is(err, domain.ErrNoLinkedEmployee):
		respondError(logger, w, http.StatusUnprocessableEntity, codeNoLinkedEmployee,
			"no linked employee record, contact an administrator", "")

	case errors.Is(err, domain.ErrSubjectNotFound):
		respondError(logger, w, http.StatusNotFound, codeSubjectNotFound, "requirement subject not found", "")
	case errors.Is(err, domain.ErrNoRequirementsDefined):
		respondError(logger, w, http.StatusUnprocessableEntity, codeNoRequirements, "no requirements configured", "")

	case errors.Is(err, domain.ErrEmployeeNotFound),
		errors.Is(err, domain.ErrDepartmentNotFound),
		errors.Is(err, domain.ErrLocationNotFound),
		errors.Is(err, domain.ErrTrainingNotFound),
		errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrExemptionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		respondError(logger, w, http.StatusNotFound, codeNotFound, err.Error(), "")

	case errors.Is(err, domain.ErrDuplicateDepartmentName),
		errors.Is(err, domain.ErrDuplicateLocationName),
		errors.Is(err, domain.ErrDuplicateRecord),
		errors.Is(err, domain.ErrDuplicateExemption):
		respondError(logger, w, http.StatusConflict, codeDuplicate, err.Error(), "")

	case errors.Is(err, domain.ErrDepartmentDepth):
		respondError(logger, w, http.StatusBadRequest, codeDepartmentDepth, err.Error(), "")
	case errors.Is(err, domain.ErrInvalidDateRange):
		respondError(logger, w, http.StatusBadRequest, codeInvalidDateRange, err.Error(), "")
	case errors.Is(err, domain.ErrInvalidSubjectRef):
		respondError(logger, w, http.StatusBadRequest, codeInvalidSubjectRef, err.Error(), "")

	default:
		logger.Error("internal error", slog.Any("error", err))
		respondError(logger, w, http.StatusInternalServerError, "", "internal server error", "")
	}
}

// extractID извлекает числовой параметр {id} из пути
func extractID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
