package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"pcp-backend/internal/storage"
)

type RunWriter interface {
	SaveRun(ctx context.Context, run storage.ProductionRun) (int64, error)
	SaveStoppage(ctx context.Context, event storage.StoppageEvent) (int64, error)
	SaveOutput(ctx context.Context, record storage.OutputRecord) (int64, error)
}

type Response struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func SaveRun(log *slog.Logger, writer RunWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.SaveRun"

		var req storage.ProductionRun
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := writer.SaveRun(ctx, req)
		if err != nil {
			log.Error("Failed to save run", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save run"})
			return
		}

		render.JSON(w, r, Response{
			ID:     id,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func SaveStoppage(log *slog.Logger, writer RunWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.SaveStoppage"

		var req storage.StoppageEvent
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := writer.SaveStoppage(ctx, req)
		if err != nil {
			log.Error("Failed to save stoppage", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save stoppage"})
			return
		}

		render.JSON(w, r, Response{
			ID:     id,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func SaveOutput(log *slog.Logger, writer RunWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.SaveOutput"

		var req storage.OutputRecord
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := writer.SaveOutput(ctx, req)
		if err != nil {
			log.Error("Failed to save output record", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save output"})
			return
		}

		render.JSON(w, r, Response{
			ID:     id,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
