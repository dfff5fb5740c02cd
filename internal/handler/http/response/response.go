package response

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// Response is the JSON envelope every API endpoint answers with.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type Meta struct {
	TotalItems int64 `json:"total_items"`
}

const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

func writeJSON(w http.ResponseWriter, statusCode int, payload Response) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		statusCode = http.StatusInternalServerError
		body, _ = json.Marshal(Response{Error: &ErrorDetail{Code: "ENCODING_ERROR", Message: "Failed to encode response"}})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(append(body, '\n'))
}

func Success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func SuccessWithMessage(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

func SuccessWithMeta(w http.ResponseWriter, data any, meta *Meta) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// File sends data as a download. rows is exposed in X-Export-Rows.
func File(w http.ResponseWriter, filename, contentType string, data []byte, rows int) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Export-Rows", strconv.Itoa(rows))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write file response", "filename", filename, "error", err)
	}
}

// Error writes a failed envelope.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	writeJSON(w, statusCode, Response{
		Error: &ErrorDetail{Code: code, Message: message, Details: details},
	})
}

func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, http.StatusBadRequest, CodeBadRequest, message, details)
}

func ValidationError(w http.ResponseWriter, details map[string]string) {
	Error(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", details)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, CodeForbidden, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, CodeNotFound, message, nil)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, CodeConflict, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, CodeInternal, message, nil)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, CodeServiceUnavailable, message, nil)
}
