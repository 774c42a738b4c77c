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

type GetWorkOrders interface {
	GetWorkOrdersMonth(ctx context.Context, year int, month int, search string) ([]*storage.WorkOrder, error)
}

type ResponseWorkOrders struct {
	Orders []*storage.WorkOrder `json:"orders"`
	Status string               `json:"status"`
	Error  string               `json:"error"`
}

func GetWorkOrdersFilter(log *slog.Logger, getOrders GetWorkOrders) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.workorders.GetWorkOrdersFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		yearStr := r.URL.Query().Get("year")
		monthStr := r.URL.Query().Get("month")
		search := r.URL.Query().Get("search")

		var year, month int
		var err error

		// Without a search term the month window is mandatory.
		if search == "" {
			if yearStr == "" || monthStr == "" {
				log.Error("Missing year or month in query parameters")
				http.Error(w, "Missing year or month", http.StatusBadRequest)
				return
			}

			year, err = strconv.Atoi(yearStr)
			if err != nil {
				log.Error("Invalid year", slog.String("error", err.Error()))
				http.Error(w, "Invalid year", http.StatusBadRequest)
				return
			}

			month, err = strconv.Atoi(monthStr)
			if err != nil {
				log.Error("Invalid month", slog.String("error", err.Error()))
				http.Error(w, "Invalid month", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := getOrders.GetWorkOrdersMonth(ctx, year, month, search)
		if err != nil {
			log.Error("Failed to list work orders", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseWorkOrders{Error: "no work orders found"})
			return
		}

		render.JSON(w, r, ResponseWorkOrders{
			Orders: orders,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
