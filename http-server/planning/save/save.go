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

type PlanningWriter interface {
	SavePlanningEntry(ctx context.Context, entry storage.PlanningEntry) (int64, error)
	SaveDownCount(ctx context.Context, baixa storage.DownCountRecord) (int64, error)
}

type Response struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func SavePlanningEntry(log *slog.Logger, writer PlanningWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.planning.SavePlanningEntry"

		var req storage.PlanningEntry
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := writer.SavePlanningEntry(ctx, req)
		if err != nil {
			log.Error("Failed to save planning entry", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save planning entry"})
			return
		}

		render.JSON(w, r, Response{
			ID:     id,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func SaveDownCount(log *slog.Logger, writer PlanningWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.planning.SaveDownCount"

		var req storage.DownCountRecord
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := writer.SaveDownCount(ctx, req)
		if err != nil {
			log.Error("Failed to save baixa", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save baixa"})
			return
		}

		render.JSON(w, r, Response{
			ID:     id,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
