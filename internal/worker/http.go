package worker

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"dubflow/internal/logging"
	"dubflow/internal/pubsub"
	"dubflow/internal/services"
)

// Handler exposes the worker as a push subscription endpoint. A 2xx response
// acknowledges the message; only a failed status write asks for redelivery,
// since everything else has already been recorded on the sheet.
func (w *Worker) Handler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(rw, fmt.Sprintf("Error reading body: %v", err), http.StatusBadRequest)
			return
		}
		envelope, err := pubsub.DecodePush(body)
		if err != nil {
			http.Error(rw, fmt.Sprintf("Error %v", err), http.StatusBadRequest)
			return
		}

		requestID := uuid.NewString()
		ctx := services.WithRequestID(r.Context(), requestID)
		w.logger.Info("push delivery",
			logging.String("request_id", requestID),
			logging.String("message_id", envelope.Message.MessageID))

		err = w.HandleMessage(ctx, envelope.Message.Data)
		switch {
		case err == nil:
			rw.WriteHeader(http.StatusOK)
			fmt.Fprint(rw, "OK")
		case errors.Is(err, services.ErrValidation):
			// Redelivering a malformed payload cannot succeed.
			http.Error(rw, fmt.Sprintf("Error %v", err), http.StatusBadRequest)
		default:
			http.Error(rw, fmt.Sprintf("Error %v", err), http.StatusInternalServerError)
		}
	})
}
