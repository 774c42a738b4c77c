package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"pcp-backend/internal/storage"
)

type AdminProvider interface {
	GetAllStopReasonsAdmin(ctx context.Context) ([]*storage.StopReason, error)
	GetMachinesAdmin(ctx context.Context) ([]*storage.Machine, error)
}

func GetStopReasonsAdmin(log *slog.Logger, provider AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetStopReasonsAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		reasons, err := provider.GetAllStopReasonsAdmin(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to list stop reasons")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, reasons)
	}
}

func GetMachinesAdmin(log *slog.Logger, provider AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetMachinesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := provider.GetMachinesAdmin(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to list machines")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, machines)
	}
}
