package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// decodeAndValidate decodes a JSON body into req and runs its validate
// tags. On failure the response is already written and the handler
// should return.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}, op string) bool {
	log := logger.FromContext(r.Context())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		log.Warn(op+": failed to decode request", "error", err)
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
		return false
	}

	if err := getValidator().Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return false
	}
	return true
}

// optionalIntQuery parses an integer query parameter. A missing value
// yields def; a malformed one writes a 400 and returns false.
func optionalIntQuery(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
		return 0, false
	}
	return n, true
}
