package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"gitlab.com/signupd/signup-backend/pkg/errorx"
)

type Envelope map[string]any

const maxRequestBodySize = 1 << 20 // 1MB

// ReadJSON decodes a single JSON document from the request body into v.
// Unknown fields, trailing documents and oversized bodies are rejected.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return decodeError(err)
	}

	// The body must hold exactly one document.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return malformed(fmt.Errorf("body must only contain a single JSON value: %w", err))
	}

	return nil
}

// decodeError translates decoder failures into client-facing malformed-JSON
// errors. An invalid decode target is the server's own bug and passes
// through as an internal error instead.
func decodeError(err error) error {
	var (
		syntaxErr    *json.SyntaxError
		typeErr      *json.UnmarshalTypeError
		maxBytesErr  *http.MaxBytesError
		badTargetErr *json.InvalidUnmarshalError
	)

	switch {
	case errors.As(err, &badTargetErr):
		return fmt.Errorf("invalid decode target: %w", err)
	case errors.As(err, &syntaxErr):
		return malformed(fmt.Errorf("badly-formed JSON (at character %d): %w", syntaxErr.Offset, err))
	case errors.Is(err, io.ErrUnexpectedEOF):
		return malformed(fmt.Errorf("body contains badly-formed JSON: %w", err))
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return malformed(fmt.Errorf("body contains invalid value for field %q: %w", typeErr.Field, err))
		}
		return malformed(fmt.Errorf("body contains invalid JSON (at character %d): %w", typeErr.Offset, err))
	case errors.Is(err, io.EOF):
		return malformed(fmt.Errorf("body must not be empty: %w", err))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return malformed(fmt.Errorf("body contains unknown field %s: %w", field, err))
	case errors.As(err, &maxBytesErr):
		return malformed(fmt.Errorf("body must not be larger than %d KB: %w", maxBytesErr.Limit/1024, err))
	default:
		return malformed(fmt.Errorf("body contains invalid JSON: %w", err))
	}
}

func malformed(err error) error {
	return errorx.NewMalformedJSON().WithCause(err)
}

func WriteJSON(w http.ResponseWriter, status int, data Envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	maps.Copy(w.Header(), headers)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(js)
	return err
}

func Success(w http.ResponseWriter, r *http.Request, status int, message Envelope) {
	if message == nil {
		message = make(Envelope, 1)
	}
	message["success"] = true

	if err := WriteJSON(w, status, message, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write success response", "status", status)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
