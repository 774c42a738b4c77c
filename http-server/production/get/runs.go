package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pcp-backend/internal/storage"
)

type GetRuns interface {
	GetRunsMonth(ctx context.Context, year int, month int) ([]*storage.ProductionRun, error)
}

type ResponseRuns struct {
	Runs   []*storage.ProductionRun `json:"runs"`
	Status string                   `json:"status"`
	Error  string                   `json:"error"`
}

func GetRunsMonth(log *slog.Logger, getRuns GetRuns) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.production.GetRunsMonth"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		yearStr := r.URL.Query().Get("year")
		monthStr := r.URL.Query().Get("month")

		if yearStr == "" || monthStr == "" {
			log.Error("Missing year or month in query parameters")
			http.Error(w, "Missing year or month", http.StatusBadRequest)
			return
		}

		year, err := strconv.Atoi(yearStr)
		if err != nil {
			log.Error("Invalid year", slog.String("error", err.Error()))
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return
		}

		month, err := strconv.Atoi(monthStr)
		if err != nil {
			log.Error("Invalid month", slog.String("error", err.Error()))
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		runs, err := getRuns.GetRunsMonth(ctx, year, month)
		if err != nil {
			log.Error("Failed to list production runs", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseRuns{Error: "failed to list runs"})
			return
		}

		render.JSON(w, r, ResponseRuns{
			Runs:   runs,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
