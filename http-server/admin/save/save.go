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

type AdminSaver interface {
	SaveStopReasonAdmin(ctx context.Context, reason storage.StopReason) (int64, error)
}

type Response struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func SaveStopReasonAdmin(log *slog.Logger, saver AdminSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveStopReasonAdmin"

		var reason storage.StopReason
		if err := json.NewDecoder(r.Body).Decode(&reason); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveStopReasonAdmin(ctx, reason)
		if err != nil {
			log.Error("Failed to save stop reason", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save stop reason"})
			return
		}

		render.JSON(w, r, Response{
			ID:     id,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
