// Package common holds the response envelope and request helpers shared by
// the HTTP handlers. Error responses do not go through here; they have
// their own shape in pkg/errors.
package common

import (
	"encoding/json"
	"net/http"
)

// APIResponse wraps every successful payload
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// ParseJSONBody decodes a JSON request body, capping its size and rejecting
// unknown fields so typos fail loudly instead of silently dropping data.
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}
