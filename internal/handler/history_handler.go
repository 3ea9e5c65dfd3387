package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/repository"
	"github.com/hr-compliance-api/internal/service"
)

type HistoryHandler struct {
	historyService service.HistoryService
	logger         *slog.Logger
}

func NewHistoryHandler(historyService service.HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// List возвращает журнал аудита, новые записи первыми
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := repository.HistoryQuery{
		TableName: r.URL.Query().Get("table"),
		RecordID:  r.URL.Query().Get("record_id"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid limit", raw)
			return
		}
		q.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid offset", raw)
			return
		}
		q.Offset = offset
	}

	entries, err := h.historyService.List(r.Context(), q)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.HistoryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toHistoryResponse(&entries[i]))
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}

func toHistoryResponse(e *domain.History) dto.HistoryResponse {
	return dto.HistoryResponse{
		ID:            e.ID,
		TableName:     e.TableName_,
		RecordID:      e.RecordID,
		Action:        e.Action,
		OldValues:     e.OldValues,
		NewValues:     e.NewValues,
		ChangedFields: e.ChangedFields,
		UserID:        e.UserID,
		Timestamp:     e.Timestamp,
	}
}
