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

type LocationHandler struct {
	locService service.LocationService
	validator  *validator.Validate
	logger     *slog.Logger
}

func NewLocationHandler(locService service.LocationService, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{
		locService: locService,
		validator:  validator.New(),
		logger:     logger,
	}
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	locs, err := h.locService.List(r.Context(), activeOnly)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.LocationResponse, 0, len(locs))
	for i := range locs {
		resp = append(resp, toLocationResponse(&locs[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid location id", err.Error())
		return
	}

	loc, err := h.locService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toLocationResponse(loc))
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	loc, err := h.locService.Create(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toLocationResponse(loc))
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid location id", err.Error())
		return
	}

	var req dto.UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	loc, err := h.locService.Update(r.Context(), caller, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toLocationResponse(loc))
}

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid location id", err.Error())
		return
	}

	if err := h.locService.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toLocationResponse(loc *domain.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		IsActive:  loc.IsActive,
		CreatedAt: loc.CreatedAt,
	}
}
