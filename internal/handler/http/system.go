package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/system"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type SystemHandler interface {
	Settings(w http.ResponseWriter, r *http.Request)
	TestConnection(w http.ResponseWriter, r *http.Request)
}

type systemHandlerImpl struct {
	systemService system.SystemService
}

func NewSystemHandler(systemService system.SystemService) SystemHandler {
	return &systemHandlerImpl{
		systemService: systemService,
	}
}

// Settings handles GET /system/settings
func (h *systemHandlerImpl) Settings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.systemService.Settings(r.Context()))
}

// TestConnection handles POST /system/connection-test
func (h *systemHandlerImpl) TestConnection(w http.ResponseWriter, r *http.Request) {
	result, err := h.systemService.TestConnection(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Connection successful", result)
}
