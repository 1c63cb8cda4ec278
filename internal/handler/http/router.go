package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Logger receives request logs. It should be built with the ECS
	// ReplaceAttr of httplog.SchemaECS.
	Logger *slog.Logger
}

type Handlers struct {
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Holiday    HolidayHandler
	Payroll    PayrollHandler
	Events     EventsHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot set headers, so the stream also accepts ?jwt=
		r.With(
			jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery),
			middleware.AuthRequired,
			middleware.RequireManager,
		).Get("/events/payday", h.Events.StreamPayday)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Get("/summary", h.Attendance.Summary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Attendance.Record)
					r.Put("/{id}", h.Attendance.Correct)
					r.Delete("/{id}", h.Attendance.Delete)
				})
			})

			r.Route("/leave", func(r chi.Router) {
				r.Get("/balances", h.Leave.ListBalances)
				r.Get("/balances/{employeeID}", h.Leave.GetBalance)
				r.Get("/requests", h.Leave.ListRequests)
				r.Post("/requests", h.Leave.SubmitRequest)
				r.Get("/policy", h.Leave.GetPolicy)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Put("/requests/{id}", h.Leave.EditRequest)
					r.Post("/requests/{id}/decision", h.Leave.DecideRequest)
					r.Delete("/requests/{id}", h.Leave.DeleteRequest)
					r.Put("/policy", h.Leave.UpdatePolicy)
				})
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Holiday.List)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Holiday.Create)
					r.Delete("/{id}", h.Holiday.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/records", h.Payroll.List)
				r.Get("/records/{id}", h.Payroll.Get)
				r.Get("/summary", h.Payroll.Summary)
				r.Get("/preview", h.Payroll.Preview)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/records", h.Payroll.CreateManual)
					r.Put("/records/{id}", h.Payroll.UpdateManual)
					r.Post("/records/{id}/pay", h.Payroll.MarkPaid)
					r.Delete("/records/{id}", h.Payroll.Delete)
					r.Post("/payday/run", h.Payroll.RunPayday)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})
	return r
}
