package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pcp-backend/internal/service/oee"
)

type MetricsComputer interface {
	Compute(ctx context.Context, start, end time.Time, sectorID, machineID *int64) (*oee.Result, error)
}

type ResponseOEE struct {
	Result *oee.Result `json:"result"`
	Status string      `json:"status"`
	Error  string      `json:"error"`
}

func GetOEE(log *slog.Logger, metrics MetricsComputer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.oee.GetOEE"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		startStr := r.URL.Query().Get("start")
		endStr := r.URL.Query().Get("end")

		// Default window is the current month so the board opens with data.
		now := time.Now()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		var err error
		if startStr != "" {
			start, err = time.Parse("2006-01-02", startStr)
			if err != nil {
				log.Error("Invalid start date", slog.String("start", startStr))
				http.Error(w, "Invalid start date", http.StatusBadRequest)
				return
			}
		}
		if endStr != "" {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				log.Error("Invalid end date", slog.String("end", endStr))
				http.Error(w, "Invalid end date", http.StatusBadRequest)
				return
			}
		}

		sectorID, err := optionalID(r.URL.Query().Get("sector"))
		if err != nil {
			http.Error(w, "Invalid sector", http.StatusBadRequest)
			return
		}
		machineID, err := optionalID(r.URL.Query().Get("machine"))
		if err != nil {
			http.Error(w, "Invalid machine", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := metrics.Compute(ctx, start, end, sectorID, machineID)
		if err != nil {
			log.Error("Failed to compute OEE", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseOEE{Error: "failed to compute OEE"})
			return
		}

		render.JSON(w, r, ResponseOEE{
			Result: result,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func optionalID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
