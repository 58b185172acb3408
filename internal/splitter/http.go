package splitter

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"dubflow/internal/logging"
	"dubflow/internal/services"
)

// Handler exposes the splitter as an HTTP trigger. POST a Request body;
// the call returns once every row has been dispatched or reported.
func (s *Splitter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, fmt.Sprintf("Error invalid request body: %v", err), http.StatusBadRequest)
			return
		}

		requestID := uuid.NewString()
		ctx := services.WithRequestID(r.Context(), requestID)
		s.logger.Info("split requested",
			logging.String("request_id", requestID),
			logging.String("worksheet_url", req.WorksheetURL))

		if err := s.Run(ctx, req); err != nil {
			http.Error(w, fmt.Sprintf("Error %v", err), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
}
