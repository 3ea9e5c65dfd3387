package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/hr-compliance-api/internal/config"
	"github.com/hr-compliance-api/internal/domain"
	"github.com/hr-compliance-api/internal/middleware"
)

// Handlers собирает все обработчики приложения для маршрутизации
type Handlers struct {
	Auth       *AuthHandler
	Employee   *EmployeeHandler
	Department *DepartmentHandler
	Location   *LocationHandler
	Training   *TrainingHandler
	Ticket     *TicketHandler
	Record     *RecordHandler
	Exemption  *ExemptionHandler
	Report     *ReportHandler
	History    *HistoryHandler
}

// NewRouter настраивает маршруты и цепочку middleware
func NewRouter(cfg *config.Config, h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.ContentType)
	r.Use(middleware.Auth(cfg.Auth.SessionSecret))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(logger, w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/employees", h.Employee.List)
			r.Get("/employees/{id}", h.Employee.GetByID)
			r.Patch("/employees/{id}/notes", h.Employee.UpdateNotes)

			r.Get("/departments", h.Department.List)
			r.Get("/departments/{id}", h.Department.GetByID)
			r.Get("/locations", h.Location.List)
			r.Get("/locations/{id}", h.Location.GetByID)
			r.Get("/trainings", h.Training.List)
			r.Get("/trainings/{id}", h.Training.GetByID)
			r.Get("/tickets", h.Ticket.List)
			r.Get("/tickets/{id}", h.Ticket.GetByID)

			r.Get("/training-records", h.Record.ListTrainingRecords)
			r.Get("/ticket-records", h.Record.ListTicketRecords)
			r.Get("/exemptions", h.Exemption.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(domain.RoleAdmin, domain.RoleDepartmentManager, domain.RoleFireWarden))

				r.Get("/reports/training-needs/{id}", h.Report.TrainingNeeds)
				r.Get("/reports/ticket-needs/{id}", h.Report.TicketNeeds)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(domain.RoleAdmin))

				r.Post("/employees", h.Employee.Create)
				r.Put("/employees/{id}", h.Employee.Update)
				r.Delete("/employees/{id}", h.Employee.Delete)

				r.Post("/departments", h.Department.Create)
				r.Put("/departments/{id}", h.Department.Update)
				r.Delete("/departments/{id}", h.Department.Delete)

				r.Post("/locations", h.Location.Create)
				r.Put("/locations/{id}", h.Location.Update)
				r.Delete("/locations/{id}", h.Location.Delete)

				r.Post("/trainings", h.Training.Create)
				r.Put("/trainings/{id}", h.Training.Update)
				r.Delete("/trainings/{id}", h.Training.Delete)

				r.Post("/tickets", h.Ticket.Create)
				r.Put("/tickets/{id}", h.Ticket.Update)
				r.Delete("/tickets/{id}", h.Ticket.Delete)

				r.Post("/training-records", h.Record.CreateTrainingRecord)
				r.Delete("/training-records/{id}", h.Record.DeleteTrainingRecord)
				r.Post("/ticket-records", h.Record.CreateTicketRecord)
				r.Delete("/ticket-records/{id}", h.Record.DeleteTicketRecord)

				r.Post("/exemptions", h.Exemption.Create)
				r.Post("/exemptions/{id}/revoke", h.Exemption.Revoke)
				r.Delete("/exemptions/{id}", h.Exemption.Delete)

				r.Get("/history", h.History.List)
			})
		})
	})

	return r
}
