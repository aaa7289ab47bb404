// Package httputil provides shared request decoding and response writing helpers.
package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	svcerrors "github.com/MathHub-Labs/calc-service/internal/errors"
)

const maxRequestBody = 1 << 20

// ErrorResponse is the JSON envelope for failed requests.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DecodeJSON reads a JSON request body into target, rejecting unknown fields
// and bodies larger than 1 MiB.
func DecodeJSON(r *http.Request, target interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return svcerrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps err to its HTTP status and writes the error envelope.
// Unclassified errors become opaque 500 responses. The wrapped cause is only
// surfaced when debug is set.
func WriteError(w http.ResponseWriter, err error, debug bool) {
	if svcErr := svcerrors.GetServiceError(err); svcErr != nil {
		resp := ErrorResponse{
			Error: svcErr.Message,
			Code:  string(svcErr.Code),
		}
		if len(svcErr.Details) > 0 || (debug && svcErr.Err != nil) {
			resp.Details = make(map[string]interface{}, len(svcErr.Details)+1)
			for k, v := range svcErr.Details {
				resp.Details[k] = v
			}
			if debug && svcErr.Err != nil {
				resp.Details["cause"] = svcErr.Err.Error()
			}
		}
		WriteJSON(w, svcErr.HTTPStatus, resp)
		return
	}

	resp := ErrorResponse{
		Error: "internal server error",
		Code:  string(svcerrors.CodeInternal),
	}
	if debug && err != nil {
		resp.Details = map[string]interface{}{"cause": err.Error()}
	}
	WriteJSON(w, http.StatusInternalServerError, resp)
}
