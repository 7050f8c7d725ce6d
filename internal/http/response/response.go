// Package response writes JSON bodies and maps ledger errors to statuses.
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrJamesThe3rd/controlfin/internal/finance"
	"github.com/MrJamesThe3rd/controlfin/internal/local"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
	"github.com/MrJamesThe3rd/controlfin/internal/rowstore"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidInput       = "invalid_input"
	CodeBackendRejected    = "backend_rejected"
	CodeBackendUnreachable = "backend_unreachable"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal_error"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`

	// Backend rejection detail.
	BackendCode string `json:"backend_code,omitempty"`
	Details     string `json:"details,omitempty"`
	Hint        string `json:"hint,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode response", "error", err, "status", status)
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	JSON(w, r, status, resp)
}

// BadRequest reports a malformed request that never reached the ledger.
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusBadRequest, ErrorResponse{Code: CodeInvalidInput, Message: message})
}

// HandleError writes the response for an error returned by the ledger. The
// ledger has already logged backend failures.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *finance.ValidationError
		ce *rowstore.ConnectivityError
		be *rowstore.Error
	)

	switch {
	case errors.As(err, &ve):
		WriteError(w, r, http.StatusBadRequest, ErrorResponse{
			Code:    CodeInvalidInput,
			Message: ve.Reason,
			Field:   ve.Field,
		})
	case errors.As(err, &ce):
		WriteError(w, r, http.StatusServiceUnavailable, ErrorResponse{
			Code:    CodeBackendUnreachable,
			Message: "No se pudo conectar con la base de datos",
		})
	case errors.As(err, &be):
		WriteError(w, r, http.StatusBadGateway, ErrorResponse{
			Code:        CodeBackendRejected,
			Message:     be.Message,
			BackendCode: be.Code,
			Details:     be.Details,
			Hint:        be.Hint,
		})
	case errors.Is(err, rowstore.ErrNotFound), errors.Is(err, local.ErrNoCategory):
		WriteError(w, r, http.StatusNotFound, ErrorResponse{Code: CodeNotFound, Message: err.Error()})
	default:
		logging.FromContext(r.Context()).Error("unexpected error", "error", err, "type", fmt.Sprintf("%T", err))
		WriteError(w, r, http.StatusInternalServerError, ErrorResponse{
			Code:    CodeInternal,
			Message: "An unexpected error occurred",
		})
	}
}

// maxForm bounds request bodies holding a single form.
const maxForm = 1 << 20

// DecodeForm reads a JSON object of form fields into dst. Fields are read
// as raw text, so numbers and booleans are accepted in place of strings.
func DecodeForm(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxForm))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	raw := make(map[string]string, len(fields))

	for k, v := range fields {
		switch x := v.(type) {
		case nil:
		case string:
			raw[k] = x
		case json.Number:
			raw[k] = x.String()
		case bool:
			raw[k] = fmt.Sprint(x)
		default:
			return fmt.Errorf("field %q must be a scalar value", k)
		}
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}

	return json.NewDecoder(&buf).Decode(dst)
}
