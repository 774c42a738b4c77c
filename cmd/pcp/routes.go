package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadherence "pcp-backend/http-server/adherence/get"
	getadmin "pcp-backend/http-server/admin/get"
	saveadmin "pcp-backend/http-server/admin/save"
	upadmin "pcp-backend/http-server/admin/update"
	generate_excel "pcp-backend/http-server/generate-report/generate-excel"
	getoee "pcp-backend/http-server/oee/get"
	getplanning "pcp-backend/http-server/planning/get"
	saveplanning "pcp-backend/http-server/planning/save"
	getruns "pcp-backend/http-server/production/get"
	saveruns "pcp-backend/http-server/production/save"
	upruns "pcp-backend/http-server/production/update"
	getstoppage "pcp-backend/http-server/stoppage/get"
	getworkorders "pcp-backend/http-server/workorders/get"
	"pcp-backend/internal/config"
	"pcp-backend/internal/middleware/auth"
	"pcp-backend/internal/service/adherence"
	"pcp-backend/internal/service/oee"
	"pcp-backend/internal/service/report"
	"pcp-backend/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, metrics *oee.MetricsService, planning *adherence.PlanningService, reports *report.ExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Indicator dashboards
	router.Get("/api/oee", getoee.GetOEE(log, metrics))
	router.Get("/api/planning/adherence", getadherence.GetWeeklyAdherence(log, planning))
	router.Get("/api/planning/delays", getadherence.GetDelayHistory(log, planning))

	// Production board
	router.Get("/api/runs", getruns.GetRunsMonth(log, storage))
	router.Post("/api/runs", saveruns.SaveRun(log, storage))
	router.Put("/api/runs/close/{id}", upruns.CloseRun(log, storage))
	router.Post("/api/stoppages", saveruns.SaveStoppage(log, storage))
	router.Get("/api/stoppages/reasons", getstoppage.GetStopReasons(log, storage))
	router.Post("/api/outputs", saveruns.SaveOutput(log, storage))

	// Weekly planning and baixas
	router.Get("/api/planning", getplanning.GetPlanningEntries(log, storage))
	router.Post("/api/planning", saveplanning.SavePlanningEntry(log, storage))
	router.Post("/api/baixas", saveplanning.SaveDownCount(log, storage))

	// Work orders
	router.Get("/api/workorders", getworkorders.GetWorkOrdersFilter(log, storage))

	// Excel export
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, reports))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/stop-reasons", getadmin.GetStopReasonsAdmin(log, storage))
	adminRouter.Put("/stop-reasons/update", upadmin.UpdateStopReasonsAdmin(log, storage))
	adminRouter.Post("/stop-reasons/new", saveadmin.SaveStopReasonAdmin(log, storage))
	adminRouter.Get("/machines", getadmin.GetMachinesAdmin(log, storage))
	adminRouter.Put("/machines/update", upadmin.UpdateMachinesAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
