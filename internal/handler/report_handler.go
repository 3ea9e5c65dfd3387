package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/dto"
	"github.com/hr-compliance-api/internal/middleware"
	"github.com/hr-compliance-api/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// TrainingNeeds строит сверку требований по обучению на дату
func (h *ReportHandler) TrainingNeeds(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, domain.SubjectTraining)
}

// TicketNeeds строит сверку требований по допускам на дату
func (h *ReportHandler) TicketNeeds(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, domain.SubjectTicket)
}

func (h *ReportHandler) reconcile(w http.ResponseWriter, r *http.Request, kind domain.SubjectKind) {
	caller, _ := middleware.CallerFrom(r.Context())

	subjectID, err := extractID(r)
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid subject id", err.Error())
		return
	}

	evalDate := time.Now().UTC().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("date"); raw != "" {
		evalDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(h.logger, w, http.StatusBadRequest, codeBadRequest, "invalid date, expected YYYY-MM-DD", err.Error())
			return
		}
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	rows, err := h.reportService.ReconcileForCaller(r.Context(), caller, kind, subjectID, evalDate, includeInactive)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	resp := make([]dto.ComplianceRowResponse, 0, len(rows))
	for i := range rows {
		resp = append(resp, dto.ComplianceRowResponse{
			Employee: toEmployeeResponse(&rows[i].Employee),
			Status:   rows[i].Status,
		})
	}
	respondJSON(h.logger, w, http.StatusOK, resp)
}
