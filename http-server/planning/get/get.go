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

type PlanningProvider interface {
	GetPlanningEntries(ctx context.Context) ([]*storage.PlanningEntry, error)
}

type ResponsePlanning struct {
	Entries []*storage.PlanningEntry `json:"entries"`
	Status  string                   `json:"status"`
	Error   string                   `json:"error"`
}

func GetPlanningEntries(log *slog.Logger, provider PlanningProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.planning.GetPlanningEntries"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := provider.GetPlanningEntries(ctx)
		if err != nil {
			log.Error("Failed to list planning entries", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponsePlanning{Error: "failed to list planning"})
			return
		}

		render.JSON(w, r, ResponsePlanning{
			Entries: entries,
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}
