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

type TrainingHandler struct {
	trainingService service.TrainingService
	validator       *validator.Validate
	logger          *slog.Logger
}

func NewTrainingHandler(trainingService service.TrainingService, logger *slog.Logger) *TrainingHandler {
	return &TrainingHandler{
		trainingService: trainingService,
		validator:       validator.New(),
		logger:          logger,
	}
}

func (h *TrainingHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	trainings, err := h.trainingService.List(r.Context(), activeOnly)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.TrainingResponse, 0, len(trainings))
	for i := range trainings {
		resp = append(resp, toTrainingResponse(&trainings[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *TrainingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid training id", err.Error())
		return
	}

	training, err := h.trainingService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toTrainingResponse(training))
}

// Create может вернуть две записи: обучение категории SOP
// создаётся парой Task Sheet + Practical
func (h *TrainingHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	trainings, err := h.trainingService.Create(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.TrainingResponse, 0, len(trainings))
	for _, t := range trainings {
		resp = append(resp, toTrainingResponse(t))
	}
	respondJSON(h.logger, w, http.StatusCreated, resp)
}

func (h *TrainingHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid training id", err.Error())
		return
	}

	var req dto.UpdateTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	trainings, err := h.trainingService.Update(r.Context(), caller, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.TrainingResponse, 0, len(trainings))
	for _, t := range trainings {
		resp = append(resp, toTrainingResponse(t))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *TrainingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid training id", err.Error())
		return
	}

	if err := h.trainingService.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTrainingResponse(t *domain.Training) dto.TrainingResponse {
	pairs := make([]domain.RequirementPair, 0, len(t.Requirements))
	for _, req := range t.Requirements {
		pairs = append(pairs, domain.RequirementPair{DepartmentID: req.DepartmentID, LocationID: req.LocationID})
	}

	return dto.TrainingResponse{
		ID:           t.ID,
		Title:        t.Title,
		Category:     t.Category,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
		Requirements: pairs,
	}
}
