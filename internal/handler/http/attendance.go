package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	events            *sse.Hub
	keepalive         time.Duration
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, events *sse.Hub) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		events:            events,
		keepalive:         30 * time.Second,
	}
}

func decodeCheckRequest(r *http.Request) (attendance.CheckRequest, error) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// CheckIn handles POST /attendance/check-in
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked in successfully", result)
}

// CheckOut handles POST /attendance/check-out
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Stream handles GET /attendance/stream, pushing each recorded check-in and
// check-out as a server-sent event.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		response.ServiceUnavailable(w, "Live updates are not enabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.events.Subscribe(sse.TopicAttendance)
	defer cleanup()
	slog.Debug("attendance stream opened", "subscribers", h.events.SubscriberCount(sse.TopicAttendance))

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := event.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
