package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/middleware"
	"github.com/hr-compliance-api/internal/service"
)

type RecordHandler struct {
	recordService service.RecordService
	validator     *validator.Validate
	logger        *slog.Logger
}

func NewRecordHandler(recordService service.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		validator:     validator.New(),
		logger:        logger,
	}
}

func (h *RecordHandler) ListTrainingRecords(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	employeeID, err := parseEmployeeIDParam(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid employee_id", err.Error())
		return
	}

	records, err := h.recordService.ListTrainingRecords(r.Context(), caller, employeeID)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.TrainingRecordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, toTrainingRecordResponse(&records[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *RecordHandler) ListTicketRecords(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	employeeID, err := parseEmployeeIDParam(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid employee_id", err.Error())
		return
	}

	records, err := h.recordService.ListTicketRecords(r.Context(), caller, employeeID)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.TicketRecordResponse, 0, len(records))
	for i := range records {
		resp = append(resp, toTicketRecordResponse(&records[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *RecordHandler) CreateTrainingRecord(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateTrainingRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	rec, err := h.recordService.CreateTrainingRecord(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toTrainingRecordResponse(rec))
}

func (h *RecordHandler) CreateTicketRecord(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateTicketRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	rec, err := h.recordService.CreateTicketRecord(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toTicketRecordResponse(rec))
}

func (h *RecordHandler) DeleteTrainingRecord(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid record id", err.Error())
		return
	}

	if err := h.recordService.DeleteTrainingRecord(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordHandler) DeleteTicketRecord(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid record id", err.Error())
		return
	}

	if err := h.recordService.DeleteTicketRecord(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseEmployeeIDParam(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("employee_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toTrainingRecordResponse(rec *domain.TrainingRecord) dto.TrainingRecordResponse {
	return dto.TrainingRecordResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		TrainingID:      rec.TrainingID,
		CompletedAt:     formatDate(rec.CompletedAt),
		ExpiresAt:       formatDatePtr(rec.ExpiresAt),
		CertificatePath: rec.CertificatePath,
	}
}

func toTicketRecordResponse(rec *domain.TicketRecord) dto.TicketRecordResponse {
	return dto.TicketRecordResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		TicketID:        rec.TicketID,
		IssuedAt:        formatDate(rec.IssuedAt),
		ExpiresAt:       formatDatePtr(rec.ExpiresAt),
		LicenceNumber:   rec.LicenceNumber,
		CertificatePath: rec.CertificatePath,
	}
}
