package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"smartfinance/internal/core"
	"smartfinance/internal/identity"
	"smartfinance/internal/log"
	"smartfinance/internal/middleware/trace"
)

// errorBody is the shape of every error response.
type errorBody struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writeAppError maps domain errors to status codes. Anything unrecognised is
// logged and answered with 500.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var fe fieldErrors
	var ve *identity.ValidationError

	switch {
	case errors.As(err, &fe):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: fe})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: ve.Fields})
	case errors.Is(err, core.ErrUnknownCategory):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: map[string]string{"category": "Unknown category"}})
	case errors.Is(err, core.ErrEmptyCategory):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: map[string]string{"category": msgCategoryRequired}})
	case errors.Is(err, core.ErrInvalidAmount):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: map[string]string{"amount": msgAmountInvalid}})
	case errors.Is(err, core.ErrInvalidDate):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: map[string]string{"date": msgDateInvalid}})
	case errors.Is(err, core.ErrDescriptionLimit):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "Validation failed", Fields: map[string]string{"description": msgDescriptionLong}})
	case errors.Is(err, core.ErrUnknownKind):
		writeError(w, http.StatusNotFound, "Unknown collection")
	case errors.Is(err, identity.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, identity.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, identity.ErrNoProfile):
		writeError(w, http.StatusNotFound, "No profile has been created")
	default:
		ctx := r.Context()
		log.NewStructuredLogger(log.FromContext(ctx)).LogError(ctx, "Request failed", err, r.Method,
			log.LogFields{log.FieldPath: r.URL.Path}.WithErrorType(log.ErrorTypeInternal))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:     "Internal server error",
			RequestID: trace.GetRequestID(ctx),
		})
	}
}

// kindParam resolves the {kind} URL segment.
func kindParam(r *http.Request) (core.Kind, error) {
	return core.ParseKind(chi.URLParam(r, "kind"))
}

// idParam resolves the {id} URL segment.
func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// publicUser renders a profile without its password.
func publicUser(u core.User) map[string]interface{} {
	out := make(map[string]interface{}, len(u.Extra)+5)
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["name"] = u.Name
	out["email"] = u.Email
	out["contact"] = u.Contact
	out["bankAccount"] = u.BankAccount
	return out
}
