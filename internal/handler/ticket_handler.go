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

type TicketHandler struct {
	ticketService service.TicketService
	validator     *validator.Validate
	logger        *slog.Logger
}

func NewTicketHandler(ticketService service.TicketService, logger *slog.Logger) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		validator:     validator.New(),
		logger:        logger,
	}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	tickets, err := h.ticketService.List(r.Context(), activeOnly)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, toTicketResponse(&tickets[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid ticket id", err.Error())
		return
	}

	ticket, err := h.ticketService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req dto.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	ticket, err := h.ticketService.Create(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusCreated, toTicketResponse(ticket))
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid ticket id", err.Error())
		return
	}

	var req dto.UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeValidation, "validation error", err.Error())
		return
	}

	ticket, err := h.ticketService.Update(r.Context(), caller, id, &req)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	id, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid ticket id", err.Error())
		return
	}

	if err := h.ticketService.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTicketResponse(t *domain.Ticket) dto.TicketResponse {
	pairs := make([]domain.RequirementPair, 0, len(t.Requirements))
	for _, req := range t.Requirements {
		pairs = append(pairs, domain.RequirementPair{DepartmentID: req.DepartmentID, LocationID: req.LocationID})
	}

	return dto.TicketResponse{
		ID:           t.ID,
		Name:         t.Name,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt,
		Requirements: pairs,
	}
}
