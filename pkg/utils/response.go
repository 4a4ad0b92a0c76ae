package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError sends the short client-facing error shape.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"message": message})
}

// RespondErrorDetail attaches the underlying error text for unexpected
// failures.
func RespondErrorDetail(w http.ResponseWriter, status int, message string, err error) {
	RespondJSON(w, status, map[string]string{"message": message, "error": err.Error()})
}
