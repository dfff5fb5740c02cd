package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/docstore"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/document"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	staffService "github.com/cmlabs-hris/attendance-backend-go/internal/service/staff"
	systemService "github.com/cmlabs-hris/attendance-backend-go/internal/service/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
	testAdminUsername    = "admin"
	testAdminPassword    = "admin-password"
	testStaffUsername    = "frontdesk"
	testStaffPassword    = "staff-password"
)

type testServer struct {
	handler http.Handler
	store   *docstore.MemoryStore
	auth    auth.AuthService
	events  *sse.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	require.NoError(t, err)

	userRepo := document.NewUserRepository(store, "users", time.Second)
	staffRepo := document.NewStaffRepository(store, "staff", time.Second)
	attendanceRepo := document.NewAttendanceRepository(store, document.AttendanceOptions{
		Collection: "attendance",
		Timeout:    time.Second,
		Location:   time.UTC,
	})

	authSvc := authService.NewAuthService(userRepo, jwtSvc)
	_, err = authSvc.EnsureAdmin(ctx, testAdminUsername, testAdminPassword)
	require.NoError(t, err)
	_, err = authSvc.Register(ctx, auth.RegisterRequest{Username: testStaffUsername, Password: testStaffPassword})
	require.NoError(t, err)

	exportsDir := t.TempDir()
	local, err := storage.NewLocalStorage(exportsDir, "/exports")
	require.NoError(t, err)

	settings := config.DefaultSettings()
	settings.Timezone = "UTC"
	reportSvc, err := reportService.NewReportService(attendanceRepo, staffRepo, reportService.ReportOptions{
		Settings: settings,
		Storage:  local,
	})
	require.NoError(t, err)

	hub := sse.NewHub()
	handlers := Handlers{
		Auth:       NewAuthHandler(authSvc),
		Staff:      NewStaffHandler(staffService.NewStaffService(staffRepo)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(attendanceRepo, staffRepo, hub), hub),
		Report:     NewReportHandler(reportSvc),
		System:     NewSystemHandler(systemService.NewSystemService(document.NewConnectionRepository(store, "test", time.Second), store, settings, "memory")),
	}

	router := NewRouter(RouterOptions{
		AppName:        "attendance-test",
		LogOutput:      io.Discard,
		AllowedOrigins: []string{"http://localhost:3000"},
		ExportsDir:     exportsDir,
		ExportsPath:    "/exports",
	}, jwtSvc, handlers)

	return &testServer{handler: router, store: store, auth: authSvc, events: hub}
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode(t, w)
	data := resp["data"].(map[string]any)
	return data["access_token"].(string)
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

// ===== HANDLER TESTS =====

func TestAuthHandler_Login_Success(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: testAdminUsername, Password: testAdminPassword})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "Bearer", data["token_type"])
	assert.Equal(t, "admin", data["role"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: testAdminUsername, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w)["success"].(bool))
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", "invalid json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, testStaffUsername, testStaffPassword)

	w := srv.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, testStaffUsername, data["username"])
	assert.Equal(t, "staff", data["role"])

	w = srv.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_RevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, testStaffUsername, testStaffPassword)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Register_RequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	staffToken := srv.login(t, testStaffUsername, testStaffPassword)
	adminToken := srv.login(t, testAdminUsername, testAdminPassword)
	req := auth.RegisterRequest{Username: "newuser", Password: "password123", ConfirmPassword: "password123"}

	w := srv.do(t, http.MethodPost, "/api/v1/auth/register", staffToken, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/auth/register", adminToken, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodPost, "/api/v1/auth/register", adminToken, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_PasswordMismatch(t *testing.T) {
	srv := newTestServer(t)
	adminToken := srv.login(t, testAdminUsername, testAdminPassword)

	w := srv.do(t, http.MethodPost, "/api/v1/auth/register", adminToken, auth.RegisterRequest{
		Username:        "newuser",
		Password:        "password123",
		ConfirmPassword: "password124",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w)
	details := resp["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "confirm_password")
}
