package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/middleware"
	"github.com/hr-compliance-api/internal/service"
)

type EmployeeHandler struct {
	empService service.EmployeeService
	validator  *validator.Validate
	logger     *slog.Logger
}

func NewEmployeeHandler(empService service.EmployeeService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		empService: empService,
		validator:  validator.New(),
		logger:     logger,
	}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	activeOnly := r.URL.Query().Get("active_only") == "true"

	employees, err := h.empService.List(r.Context(), caller, activeOnly)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, toEmployeeResponse(&employees[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid employee id", err.Error())
		return
	}

	emp, err := h.empService.GetByID(r.Context(), caller, id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	emp, err := h.empService.Create(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid employee id", err.Error())
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	emp, err := h.empService.Update(r.Context(), caller, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toEmployeeResponse(emp))
}

// UpdateNotes обрабатывает изменение заметок собственной записи
func (h *EmployeeHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid employee id", err.Error())
		return
	}

	var req dto.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	emp, err := h.empService.UpdateNotes(r.Context(), caller, id, req.Notes)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toEmployeeResponse(emp))
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid employee id", err.Error())
		return
	}

	if err := h.empService.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toEmployeeResponse(emp *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:           emp.ID,
		FirstName:    emp.FirstName,
		LastName:     emp.LastName,
		Email:        emp.Email,
		Position:     emp.Position,
		DepartmentID: emp.DepartmentID,
		LocationID:   emp.LocationID,
		IsActive:     emp.IsActive,
		StartDate:    formatDate(emp.StartDate),
		FinishDate:   formatDatePtr(emp.FinishDate),
		Notes:        emp.Notes,
		CreatedAt:    emp.CreatedAt,
	}
}
