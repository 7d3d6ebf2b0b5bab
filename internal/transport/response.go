package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"craftconnect-be/internal/logger"
	"craftconnect-be/internal/order"

	"go.uber.org/zap"
)

// Response is the wire envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Success: false, Message: msg})
}

// writeError maps engine errors to status classes. Business failures
// carry their message to the caller; infrastructure detail is logged
// server-side only.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidPrice):
		writeMessage(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, order.ErrUnauthorized):
		writeMessage(w, http.StatusForbidden, "forbidden")

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrProductNotAvailable):
		writeMessage(w, http.StatusNotFound, err.Error())

	case errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, order.ErrInvalidTransition):
		writeMessage(w, http.StatusConflict, err.Error())

	case errors.Is(err, order.ErrTransient):
		logger.FromCtx(ctx).Error("transient infrastructure failure", zap.Error(err))
		writeMessage(w, http.StatusServiceUnavailable, "service temporarily unavailable")

	default:
		logger.FromCtx(ctx).Error("unhandled error", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
