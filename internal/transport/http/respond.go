package httptransport

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/messbill/internal/service"
)

// messageResponse is the body of every error and of plain acknowledgements.
type messageResponse struct {
	Message string `json:"message"`
}

// numberField holds a JSON number or a numeric string exactly as sent.
// Parsing is left to the service so invalid input is reported there.
type numberField string

func (n *numberField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = numberField(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = numberField(num.String())
	return nil
}

func (n numberField) String() string { return string(n) }

// intValue parses the field as a whole number that fits in an int.
func (n numberField) intValue(field string) (int, error) {
	v, err := strconv.Atoi(string(n))
	if err != nil {
		return 0, invalidInput(field + " must be a whole number")
	}
	return v, nil
}

// int64Value parses the field as a whole number.
func (n numberField) int64Value(field string) (int64, error) {
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, invalidInput(field + " must be a whole number")
	}
	return v, nil
}

type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return service.ErrInvalidInput }

func invalidInput(msg string) error { return &inputError{msg: msg} }

// amountJSON renders a decimal amount as a JSON number without passing through float64.
func amountJSON(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// writeJSON encodes v before writing the status so an encoding failure becomes a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"internal server error"}` + "\n"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON reads the request body into dst. Malformed bodies are invalid input.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return invalidInput("invalid request body")
	}
	return nil
}

// writeError maps service errors to status codes. Persistence failures are logged
// and answered with a generic message.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNoAttendanceRecorded):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		h.logger.ErrorContext(r.Context(), "Request failed",
			"route", r.URL.Path,
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeMessage(w, status, err.Error())
}
