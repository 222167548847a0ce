package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-hbnb/internal/models"
	"github.com/FACorreiaa/go-hbnb/internal/storage"
)

const maxBodyBytes = 1_048_576

// Messages returned in the "error" field of error responses.
const (
	MsgNotFound      = "Not found"
	MsgNotJSON       = "Not a JSON"
	MsgInvalidValue  = "Invalid value"
	MsgInternalError = "Internal server error"
)

var ErrNotJSON = errors.New("not a JSON object")

// MissingFieldError reports a required body field that is absent or empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string { return "Missing " + e.Field }

// RequireFields returns a MissingFieldError for the first field of body that
// is absent, null or an empty string.
func RequireFields(body map[string]any, fields ...string) error {
	for _, f := range fields {
		v, ok := body[f]
		if !ok || v == nil || v == "" {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

// StringField returns body[name] when it is a string.
func StringField(body map[string]any, name string) string {
	s, _ := body[name].(string)
	return s
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSONResponse(w, r, status, map[string]string{"error": message})
}

// WriteError maps err to its HTTP status and writes the error response.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *MissingFieldError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		ErrorResponse(w, r, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, ErrNotJSON):
		ErrorResponse(w, r, http.StatusBadRequest, MsgNotJSON)
	case errors.As(err, &missing):
		ErrorResponse(w, r, http.StatusBadRequest, missing.Error())
	case errors.Is(err, models.ErrInvalidValue):
		ErrorResponse(w, r, http.StatusBadRequest, MsgInvalidValue)
	default:
		ErrorResponse(w, r, http.StatusInternalServerError, MsgInternalError)
	}
}

// WriteJSONResponse encodes the data to JSON and writes the response header and body.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	js = append(js, '\n')
	if _, err = w.Write(js); err != nil {
		// Client already received the status code
		reqID := middleware.GetReqID(r.Context())
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", reqID),
		)
	}
}

// DecodeJSONBody reads a JSON object from the request body. Anything that is
// not a single JSON object yields an error wrapping ErrNotJSON. Numbers are
// kept as json.Number so integers stay integers.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return nil, fmt.Errorf("%w: badly-formed JSON at character %d", ErrNotJSON, syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, fmt.Errorf("%w: badly-formed JSON", ErrNotJSON)
		case errors.As(err, &unmarshalTypeError):
			return nil, fmt.Errorf("%w: body is a JSON %s", ErrNotJSON, unmarshalTypeError.Value)
		case errors.Is(err, io.EOF):
			return nil, fmt.Errorf("%w: body is empty", ErrNotJSON)
		case errors.As(err, &maxBytesError):
			return nil, fmt.Errorf("%w: body larger than %d bytes", ErrNotJSON, maxBytesError.Limit)
		default:
			return nil, fmt.Errorf("%w: %w", ErrNotJSON, err)
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: body is null", ErrNotJSON)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: body must only contain a single JSON value", ErrNotJSON)
	}
	return body, nil
}

// RequireObject rejects an empty body the same way as a malformed one.
func RequireObject(body map[string]any) error {
	if len(body) == 0 {
		return ErrNotJSON
	}
	return nil
}
