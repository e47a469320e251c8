package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/tenderops/tender-management/internal/auth"
	"github.com/tenderops/tender-management/internal/history"
	"github.com/tenderops/tender-management/internal/instrument"
	"github.com/tenderops/tender-management/internal/request"
	"github.com/tenderops/tender-management/internal/transport/middleware"
	"github.com/tenderops/tender-management/internal/transport/swagger"
	"github.com/tenderops/tender-management/internal/workflow"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	requestHandler *request.Handler,
	instrumentHandler *instrument.Handler,
	historyHandler *history.Handler,
	workflowHandler *workflow.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
			})
		}

		// Workflow catalogs are reference data, no auth needed.
		if workflowHandler != nil {
			r.Route("/workflows", func(wr chi.Router) {
				wr.Get("/", workflowHandler.ListWorkflows)
				wr.Get("/{name}", workflowHandler.GetWorkflowSteps)
				wr.Get("/{name}/timers", workflowHandler.GetWorkflowTimers)
			})
		}

		if authHandler == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			if requestHandler != nil {
				pr.Route("/requests", func(rr chi.Router) {
					rr.Get("/", requestHandler.ListRequests)
					rr.Get("/{id}", requestHandler.GetRequest)
					if instrumentHandler != nil {
						rr.Get("/{requestID}/instruments", instrumentHandler.GetInstrumentsForRequest)
					}

					rr.Group(func(mr chi.Router) {
						mr.Use(authHandler.RequirePermission("create_requests"))
						mr.Post("/", requestHandler.CreateRequest)
					})
				})
			}

			if instrumentHandler != nil {
				pr.Route("/instruments", func(ir chi.Router) {
					ir.Get("/{id}", instrumentHandler.GetInstrument)
					ir.Get("/{id}/actions", instrumentHandler.GetAvailableActions)
					if historyHandler != nil {
						ir.Get("/{id}/history", historyHandler.GetHistory)
					}

					ir.Group(func(mr chi.Router) {
						mr.Use(authHandler.RequirePermission("manage_instruments"))
						mr.Post("/", instrumentHandler.CreateInstrument)
						mr.Patch("/{id}/status", instrumentHandler.TransitionStatus)
						mr.Patch("/{id}/reject", instrumentHandler.RejectInstrument)
						mr.Post("/{id}/resubmit", instrumentHandler.ResubmitInstrument)
					})
				})
			}
		})
	})
}
