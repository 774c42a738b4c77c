package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pcp-backend/internal/service/adherence"
)

type AdherenceProvider interface {
	WeeklyAdherence(ctx context.Context) ([]*adherence.WeekRow, error)
	DelayHistory(ctx context.Context) ([]*adherence.DelayWeek, error)
}

type ResponseAdherence struct {
	Weeks  []*adherence.WeekRow `json:"weeks"`
	Status string               `json:"status"`
	Error  string               `json:"error"`
}

func GetWeeklyAdherence(log *slog.Logger, provider AdherenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.adherence.GetWeeklyAdherence"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		weeks, err := provider.WeeklyAdherence(ctx)
		if err != nil {
			log.Error("Failed to compute weekly adherence", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseAdherence{Error: "failed to compute adherence"})
			return
		}

		render.JSON(w, r, ResponseAdherence{
			Weeks:  weeks,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

type ResponseDelays struct {
	Weeks  []*adherence.DelayWeek `json:"weeks"`
	Status string                 `json:"status"`
	Error  string                 `json:"error"`
}

func GetDelayHistory(log *slog.Logger, provider AdherenceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.adherence.GetDelayHistory"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		weeks, err := provider.DelayHistory(ctx)
		if err != nil {
			log.Error("Failed to compute delay history", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseDelays{Error: "failed to compute delays"})
			return
		}

		render.JSON(w, r, ResponseDelays{
			Weeks:  weeks,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
