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

type DepartmentHandler struct {
	deptService service.DepartmentService
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewDepartmentHandler(deptService service.DepartmentService, logger *slog.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		deptService: deptService,
		validator:   validator.New(),
		logger:      logger,
	}
}

func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	depts, err := h.deptService.List(r.Context(), activeOnly)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		resp = append(resp, toDepartmentResponse(&depts[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *DepartmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid department id", err.Error())
		return
	}

	dept, err := h.deptService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toDepartmentResponse(dept))
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	dept, err := h.deptService.Create(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toDepartmentResponse(dept))
}

func (h *DepartmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid department id", err.Error())
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	dept, err := h.deptService.Update(r.Context(), caller, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toDepartmentResponse(dept))
}

func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid department id", err.Error())
		return
	}

	if err := h.deptService.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toDepartmentResponse(dept *domain.Department) dto.DepartmentResponse {
	resp := dto.DepartmentResponse{
		ID:        dept.ID,
		Name:      dept.Name,
		ParentID:  dept.ParentID,
		Level:     dept.Level,
		IsActive:  dept.IsActive,
		CreatedAt: dept.CreatedAt,
	}

	if len(dept.Children) > 0 {
		resp.Children = make([]dto.DepartmentResponse, 0, len(dept.Children))
		for i := range dept.Children {
			resp.Children = append(resp.Children, toDepartmentResponse(&dept.Children[i]))
		}
	}

	return resp
}
