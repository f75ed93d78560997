package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vendra/escrow-svc/internal/service/models/apperr"
)

type body struct {
	Result  any    `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

func write(w http.ResponseWriter, status int, b body) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(b); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Result writes a success body of the form {"result": ...}.
func Result(w http.ResponseWriter, status int, result any) {
	write(w, status, body{Result: result})
}

// Message writes a body of the form {"message": ...}.
func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, body{Message: message})
}

func statusOf(code apperr.Code) int {
	switch code {
	case apperr.CodeBadRequest:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error maps a service error to its HTTP status and a {"message"} body.
// Internal causes are never exposed to the caller.
func Error(w http.ResponseWriter, err error) {
	write(w, statusOf(apperr.CodeOf(err)), body{Message: apperr.MessageOf(err)})
}
