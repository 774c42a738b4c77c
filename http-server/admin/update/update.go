package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"pcp-backend/internal/storage"
)

type AdminUpdater interface {
	UpdateStopReasonsAdmin(ctx context.Context, reasons []storage.StopReason) error
	UpdateMachinesAdmin(ctx context.Context, machines []storage.Machine) error
}

func UpdateStopReasonsAdmin(log *slog.Logger, updater AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateStopReasonsAdmin"

		var reasons []storage.StopReason
		if err := json.NewDecoder(r.Body).Decode(&reasons); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := updater.UpdateStopReasonsAdmin(ctx, reasons)
		if err != nil {
			log.Error("Failed to update stop reasons", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func UpdateMachinesAdmin(log *slog.Logger, updater AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateMachinesAdmin"

		var machines []storage.Machine
		if err := json.NewDecoder(r.Body).Decode(&machines); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := updater.UpdateMachinesAdmin(ctx, machines)
		if err != nil {
			log.Error("Failed to update machines", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
