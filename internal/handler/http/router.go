package http

import (
	"log/slog"
	"os"

	"github.com/fieldops/timetrack-backend-go/internal/handler/http/middleware"
	"github.com/fieldops/timetrack-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	timeclockHandler TimeclockHandler,
	journeyHandler JourneyHandler,
	calendarHandler CalendarHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timetrack-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/clock", func(r chi.Router) {
				r.Post("/in", timeclockHandler.ClockIn)
				r.Post("/out", timeclockHandler.ClockOut)
				r.Post("/auto-in", timeclockHandler.AutoClockIn)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/entries/{id}/approve", timeclockHandler.ApproveEntry)
					r.Post("/entries/{id}/reject", timeclockHandler.RejectEntry)
				})
			})

			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", timeclockHandler.RequestAdjustment)

				// Manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/{id}/approve", timeclockHandler.ApproveAdjustment)
					r.Post("/{id}/reject", timeclockHandler.RejectAdjustment)
				})
			})

			r.Route("/journeys", func(r chi.Router) {
				r.Post("/calculate-day", journeyHandler.CalculateDay)
				r.Post("/calculate-month", journeyHandler.CalculateMonth)
				r.Get("/{userID}/summary/{yearMonth}", journeyHandler.GetMonthSummary)
				r.Get("/{userID}/hour-bank", journeyHandler.GetHourBankBalance)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/business-day", calendarHandler.IsBusinessDay)
				r.Get("/add-business-days", calendarHandler.AddBusinessDays)
				r.Get("/add-business-minutes", calendarHandler.AddBusinessMinutes)
				r.Get("/business-minutes-between", calendarHandler.BusinessMinutesBetween)
			})
		})
	})
	return r
}
