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

type ExemptionHandler struct {
	exemptionService service.ExemptionService
	validator        *validator.Validate
	logger           *slog.Logger
}

func NewExemptionHandler(exemptionService service.ExemptionService, logger *slog.Logger) *ExemptionHandler {
	return &ExemptionHandler{
		exemptionService: exemptionService,
		validator:        validator.New(),
		logger:           logger,
	}
}

// List возвращает плоский список для любой роли
func (h *ExemptionHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	exemptions, err := h.exemptionService.List(r.Context(), caller)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.ExemptionResponse, 0, len(exemptions))
	for i := range exemptions {
		resp = append(resp, toExemptionResponse(&exemptions[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *ExemptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateExemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	exemption, err := h.exemptionService.Create(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toExemptionResponse(exemption))
}

func (h *ExemptionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid exemption id", err.Error())
		return
	}

	exemption, err := h.exemptionService.Revoke(r.Context(), caller, id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toExemptionResponse(exemption))
}

func (h *ExemptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid exemption id", err.Error())
		return
	}

	if err := h.exemptionService.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toExemptionResponse(e *domain.Exemption) dto.ExemptionResponse {
	return dto.ExemptionResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Type:       e.Type,
		TrainingID: e.TrainingID,
		TicketID:   e.TicketID,
		StartDate:  formatDate(e.StartDate),
		EndDate:    formatDatePtr(e.EndDate),
		Reason:     e.Reason,
		Status:     e.Status,
	}
}
