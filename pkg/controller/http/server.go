package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/grievance/pkg/usecase"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
)

const defaultMaxUploadSize = 32 << 20

type Server struct {
	router        *chi.Mux
	caseUC        CaseUseCase
	appointmentUC AppointmentUseCase
	authUC        AuthUseCase
	maxUploadSize int64
	enableMetrics bool
}

type Options func(*Server)

// WithMaxUploadSize limits the memory used to parse multipart forms
func WithMaxUploadSize(size int64) Options {
	return func(s *Server) {
		s.maxUploadSize = size
	}
}

// WithMetrics toggles the /metrics endpoint
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

// NewFromUseCases wires the server to the use case container
func NewFromUseCases(uc *usecase.UseCases, opts ...Options) *Server {
	return New(uc.Case, uc.Appointment, uc.Auth, opts...)
}

func New(caseUC CaseUseCase, appointmentUC AppointmentUseCase, authUC AuthUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		caseUC:        caseUC,
		appointmentUC: appointmentUC,
		authUC:        authUC,
		maxUploadSize: defaultMaxUploadSize,
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(metricsMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	if s.enableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signup", signUpHandler(s.authUC))
		r.Post("/auth/signin", signInHandler(s.authUC))
		r.Post("/complaints", fileComplaintHandler(s.caseUC, s.maxUploadSize))
		r.Get("/party/cases/{ref_id}", partyCaseHandler(s.caseUC))
		r.Post("/appointments/attendance", confirmAttendanceHandler(s.appointmentUC))
		r.Post("/appointments/attendance/decline", declineAttendanceHandler(s.appointmentUC))
		r.Post("/appointments/reschedule", requestRescheduleHandler(s.appointmentUC))

		// Staff endpoints
		r.Group(func(r chi.Router) {
			r.Use(staffAuth(s.authUC))

			r.Get("/cases/unassigned", unassignedCasesHandler(s.caseUC))
			r.Get("/cases/{case_id}", getCaseHandler(s.caseUC))
			r.Post("/cases/assign", assignCaseHandler(s.caseUC))
			r.Post("/cases/mandate", mandateHandler(s.caseUC))
			r.Post("/cases/investigation/files", investigationFilesHandler(s.caseUC, s.maxUploadSize))
			r.Post("/cases/investigation/requests", evidenceRequestHandler(s.caseUC))
			r.Post("/cases/hearings", hearingHandler(s.caseUC))
			r.Post("/cases/mediation", mediationHandler(s.caseUC))
			r.Post("/cases/decision", decisionHandler(s.caseUC))
			r.Post("/cases/status", advanceHandler(s.caseUC))

			r.Get("/appointments", listAppointmentsHandler(s.appointmentUC))
			r.Post("/appointments/reschedule/apply", applyRescheduleHandler(s.appointmentUC))
			r.Post("/appointments/reschedule/decline", declineRescheduleHandler(s.appointmentUC))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger attaches a logger carrying the request ID to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
