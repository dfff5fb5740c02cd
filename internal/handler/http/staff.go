package http

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type StaffHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type staffHandlerImpl struct {
	staffService staff.StaffService
}

func NewStaffHandler(staffService staff.StaffService) StaffHandler {
	return &staffHandlerImpl{
		staffService: staffService,
	}
}

// staffName reads the {name} path parameter. chi matches on RawPath when the
// request carries one, and only then is the parameter still escaped.
func staffName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// List handles GET /staff
func (h *staffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.staffService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, members, &response.Meta{TotalItems: int64(len(members))})
}

// Get handles GET /staff/{name}
func (h *staffHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	member, err := h.staffService.Get(r.Context(), staffName(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, member)
}

// Create handles POST /staff
func (h *staffHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req staff.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.staffService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Staff created successfully", created)
}

// Update handles PUT /staff/{name}
func (h *staffHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req staff.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.staffService.Update(r.Context(), staffName(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff updated successfully", updated)
}

// Delete handles DELETE /staff/{name}
func (h *staffHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.staffService.Delete(r.Context(), staffName(r)); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff deleted successfully", nil)
}
