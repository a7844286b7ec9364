// Package response provides helpers for writing consistent HTTP responses.
//
// Every handler in this application sends JSON back to the client (the
// welcome page is the single plain-text exception). Rather than repeating
// the same three lines (set header, set status, encode) in every handler,
// we centralise them here.
package response

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the envelope returned for error cases:
//
//	{ "error": "Student not found" }
//
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Error string `json:"error"`
}

// Message is the envelope for confirmations that carry no record:
//
//	{ "message": "Student Ana has been deleted" }
type Message struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteText writes a plain-text body with the given HTTP status code.
func WriteText(w http.ResponseWriter, status int, text string) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, err := io.WriteString(w, text)
	return err
}

// Error builds an error envelope from a literal message. Use it when the
// client-facing wording is fixed by the API contract.
func Error(msg string) Response {
	return Response{Error: msg}
}

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError wraps any Go error into our standard Response shape.
// Use this for unexpected errors (DB failures, decode errors, etc.)
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) Response {
	return Response{Error: err.Error()}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response, joined with ", ".
//
// The "required" message is the one the directory API documents for a
// missing parameter, e.g. "Missing student ID parameter" when the field
// carries the label "student ID" via a `label:"..."` tag. Fields without a
// label fall back to their Go name.
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("Missing %s parameter", e.Field()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{Error: strings.Join(errMessages, ", ")}
}
