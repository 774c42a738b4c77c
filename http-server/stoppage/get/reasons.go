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

type StopReasonProvider interface {
	GetStopReasons(ctx context.Context) ([]*storage.StopReason, error)
}

type ResponseReasons struct {
	Reasons []*storage.StopReason `json:"reasons"`
	Status  string                `json:"status"`
	Error   string                `json:"error"`
}

func GetStopReasons(log *slog.Logger, provider StopReasonProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.stoppage.GetStopReasons"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		reasons, err := provider.GetStopReasons(ctx)
		if err != nil {
			log.Error("Failed to list stop reasons", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseReasons{Error: "failed to list stop reasons"})
			return
		}

		render.JSON(w, r, ResponseReasons{
			Reasons: reasons,
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}
