package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/retailhub/backoffice/pkg/errors"
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorBody represents an error in the response
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Meta contains pagination and other metadata
type Meta struct {
	Page       int   `json:"page,omitempty"`
	PerPage    int   `json:"per_page,omitempty"`
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"total_pages,omitempty"`
}

func writeResponse(w http.ResponseWriter, statusCode int, body Response) {
	body.Success = statusCode >= 200 && statusCode < 300
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// JSON sends data wrapped in the standard envelope
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	writeResponse(w, statusCode, Response{Data: data})
}

// JSONWithMeta sends a page of data along with its pagination
func JSONWithMeta(w http.ResponseWriter, statusCode int, data interface{}, meta *Meta) {
	writeResponse(w, statusCode, Response{Data: data, Meta: meta})
}

// Message sends a success response carrying only a human readable message
func Message(w http.ResponseWriter, statusCode int, message string) {
	writeResponse(w, statusCode, Response{Message: message})
}

// Error writes err as an error envelope. Anything that is not an AppError
// is reported as a generic 500 so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		appErr = errors.Internal("an unexpected error occurred")
	}

	writeResponse(w, appErr.StatusCode, Response{
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// NoContent sends a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Attachment streams a generated document as a download
func Attachment(w http.ResponseWriter, filename, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// DecodeJSON decodes the request body into the provided struct
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}

// URLParamInt64 reads a numeric chi URL parameter
func URLParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value, naming field in the error
func ParseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, errors.BadRequest(fmt.Sprintf("invalid %s format, expected YYYY-MM-DD", field))
	}
	return t, nil
}

// QueryDate parses an optional YYYY-MM-DD query parameter
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := ParseDate(raw, name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
