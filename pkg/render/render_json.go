package render

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes v with the given status. Encoding failures can only be logged
// since the header is already out.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Error: msg})
}
