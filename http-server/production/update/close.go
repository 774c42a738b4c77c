package update

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type RunCloser interface {
	CloseRun(ctx context.Context, runID int64) error
}

func CloseRun(log *slog.Logger, closer RunCloser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.CloseRun"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		log.Info("Closing production run", slog.Int64("id", id))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = closer.CloseRun(ctx, id)
		if err != nil {
			log.Error("Failed to close run", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Failed to close run", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]interface{}{
			"status": strconv.Itoa(http.StatusOK),
			"run_id": id,
		})
	}
}
