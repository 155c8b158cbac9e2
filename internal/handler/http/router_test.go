package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	clientService "github.com/cmlabs-hris/attendance-backend-go/internal/service/client"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	leaveService "github.com/cmlabs-hris/attendance-backend-go/internal/service/leave"
	masterService "github.com/cmlabs-hris/attendance-backend-go/internal/service/master"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
	} `json:"meta"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwtService, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp)
	require.NoError(t, err)

	store := memory.NewStore()
	transactor := memory.NewTransactor()
	users := memory.NewUserRepository(store)
	clients := memory.NewClientRepository(store)
	branches := memory.NewBranchRepository(store)
	shifts := memory.NewShiftRepository(store)
	employees := memory.NewEmployeeRepository(store)
	records := memory.NewAttendanceRepository(store)
	leaveTypes := memory.NewLeaveTypeRepository(store)
	leaveRequests := memory.NewLeaveRequestRepository(store)

	handlers := Handlers{
		Auth:       NewAuthHandler(jwtService, authService.NewAuthService(transactor, users, clients, jwtService)),
		Client:     NewClientHandler(clientService.NewClientService(clients)),
		Master:     NewMasterHandler(masterService.NewMasterService(clients, branches, shifts)),
		Employee:   NewEmployeeHandler(employeeService.NewEmployeeService(transactor, employees, users, clients, branches, shifts)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(records, employees, branches, clients, time.UTC)),
		Leave:      NewLeaveHandler(leaveService.NewLeaveService(leaveTypes, leaveRequests, employees, clients)),
		Dashboard:  NewDashboardHandler(dashboardService.NewDashboardService(employees, records, leaveRequests, clients, time.UTC)),
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	router := NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:       slog.LevelError,
		PunchRequests:  100,
		PunchWindow:    time.Minute,
	}, logger, jwtService, handlers)

	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *testServer) decode(env envelope, dst interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(env.Data, dst))
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, code)

	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	s.decode(env, &tokens)
	require.NotEmpty(s.t, tokens.AccessToken)
	return tokens.AccessToken
}

// setup registers a client admin, a geofenced branch and one employee, and
// returns their access tokens.
func (s *testServer) setup() (adminToken, employeeToken, employeeID string) {
	s.t.Helper()

	code, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"client_name": "Acme",
		"name":        "Admin",
		"email":       "admin@acme.test",
		"password":    "password123",
	})
	require.Equal(s.t, http.StatusCreated, code, env)
	adminToken = s.login("admin@acme.test", "password123")

	code, env = s.do(http.MethodPost, "/api/v1/admin/branches", adminToken, map[string]interface{}{
		"name":          "HQ",
		"latitude":      23.4144,
		"longitude":     88.4853,
		"radius_meters": 500,
	})
	require.Equal(s.t, http.StatusCreated, code, env)
	var branch struct {
		ID string `json:"id"`
	}
	s.decode(env, &branch)

	code, env = s.do(http.MethodPost, "/api/v1/admin/employees", adminToken, map[string]interface{}{
		"name":      "Budi",
		"email":     "budi@acme.test",
		"password":  "password123",
		"branch_id": branch.ID,
	})
	require.Equal(s.t, http.StatusCreated, code, env)
	var emp struct {
		ID string `json:"id"`
	}
	s.decode(env, &emp)

	return adminToken, s.login("budi@acme.test", "password123"), emp.ID
}

func punch(action string, lat, lng float64) map[string]interface{} {
	return map[string]interface{}{"latitude": lat, "longitude": lng, "action": action}
}

func TestRouter_Heartbeat(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/v1/attendance/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = s.do(http.MethodGet, "/api/v1/attendance/status", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_PunchFlow(t *testing.T) {
	s := newTestServer(t)
	_, token, employeeID := s.setup()

	code, env := s.do(http.MethodPost, "/api/v1/attendance/punch", token, punch("IN", 23.4144, 88.4853))
	require.Equal(t, http.StatusCreated, code, env)
	assert.True(t, env.Success)
	assert.Equal(t, "Punched in successfully", env.Message)
	var record struct {
		EmployeeID string  `json:"employee_id"`
		OutTime    *string `json:"out_time"`
	}
	s.decode(env, &record)
	assert.Equal(t, employeeID, record.EmployeeID)
	assert.Nil(t, record.OutTime)

	code, env = s.do(http.MethodPost, "/api/v1/attendance/punch", token, punch("IN", 23.4144, 88.4853))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_PUNCHED_IN", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/attendance/status", token, nil)
	require.Equal(t, http.StatusOK, code)
	var status struct {
		PunchedIn  bool            `json:"punched_in"`
		LastRecord json.RawMessage `json:"last_record"`
	}
	s.decode(env, &status)
	assert.True(t, status.PunchedIn)

	code, env = s.do(http.MethodPost, "/api/v1/attendance/punch", token, punch("OUT", 23.5, 88.5))
	require.Equal(t, http.StatusOK, code, env)
	assert.Equal(t, "Punched out successfully", env.Message)
	s.decode(env, &record)
	assert.NotNil(t, record.OutTime)

	code, env = s.do(http.MethodPost, "/api/v1/attendance/punch", token, punch("OUT", 23.4144, 88.4853))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "NOT_PUNCHED_IN", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/attendance/my", token, nil)
	require.Equal(t, http.StatusOK, code)
	var history []json.RawMessage
	s.decode(env, &history)
	assert.Len(t, history, 1)
}

func TestRouter_PunchOutsideGeofence(t *testing.T) {
	s := newTestServer(t)
	_, token, _ := s.setup()

	code, env := s.do(http.MethodPost, "/api/v1/attendance/punch", token, punch("IN", 23.5044, 88.4853))
	require.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "OUTSIDE_GEOFENCE", env.Error.Code)
	assert.InDelta(t, 10007, env.Error.Details["distance_meters"], 5)
	assert.Equal(t, 500.0, env.Error.Details["radius_meters"])
}

func TestRouter_PunchMissingLocation(t *testing.T) {
	s := newTestServer(t)
	_, token, _ := s.setup()

	code, env := s.do(http.MethodPost, "/api/v1/attendance/punch", token, map[string]string{"action": "IN"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_LOCATION", env.Error.Code)

	code, env = s.do(http.MethodPost, "/api/v1/attendance/punch", token, map[string]string{"action": "LATER"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestRouter_AdminReportAndRoles(t *testing.T) {
	s := newTestServer(t)
	adminToken, token, _ := s.setup()

	code, _ := s.do(http.MethodPost, "/api/v1/attendance/punch", token, punch("IN", 23.4144, 88.4853))
	require.Equal(t, http.StatusCreated, code)

	code, env := s.do(http.MethodGet, "/api/v1/admin/attendance", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, env = s.do(http.MethodGet, "/api/v1/admin/attendance?limit=10", adminToken, nil)
	require.Equal(t, http.StatusOK, code, env)
	var items []struct {
		EmployeeName string `json:"employee_name"`
		Punctuality  string `json:"punctuality"`
		IsLate       bool   `json:"is_late"`
	}
	s.decode(env, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Budi", items[0].EmployeeName)
	assert.Equal(t, "UNKNOWN", items[0].Punctuality)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 10, env.Meta.Limit)

	code, env = s.do(http.MethodGet, "/api/v1/admin/attendance", adminToken, nil)
	require.Equal(t, http.StatusOK, code, env)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 100, env.Meta.Limit)
	assert.Equal(t, int64(1), env.Meta.TotalItems)

	code, env = s.do(http.MethodGet, "/api/v1/admin/attendance?limit=abc", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = s.do(http.MethodGet, "/api/v1/admin/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var dash struct {
		TotalEmployees     int64 `json:"total_employees"`
		CurrentlyPunchedIn int64 `json:"currently_punched_in"`
	}
	s.decode(env, &dash)
	assert.Equal(t, int64(1), dash.TotalEmployees)
	assert.Equal(t, int64(1), dash.CurrentlyPunchedIn)

	// Client admins have no employee profile and cannot punch.
	code, env = s.do(http.MethodPost, "/api/v1/attendance/punch", adminToken, punch("IN", 23.4144, 88.4853))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/admin/clients", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_LeaveFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken, token, _ := s.setup()

	code, env := s.do(http.MethodPost, "/api/v1/admin/leave/types", adminToken, map[string]interface{}{
		"name":         "Annual",
		"days_allowed": 12,
		"is_paid":      true,
	})
	require.Equal(t, http.StatusCreated, code, env)
	var lt struct {
		ID string `json:"id"`
	}
	s.decode(env, &lt)

	code, env = s.do(http.MethodPost, "/api/v1/leave/requests", token, map[string]string{
		"leave_type_id": lt.ID,
		"start_date":    "2025-04-01",
		"end_date":      "2025-04-02",
	})
	require.Equal(t, http.StatusCreated, code, env)
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	s.decode(env, &req)
	assert.Equal(t, "PENDING", req.Status)

	code, _ = s.do(http.MethodPost, "/api/v1/admin/leave/requests/"+req.ID+"/approve", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPost, "/api/v1/admin/leave/requests/"+req.ID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, code, env)
	s.decode(env, &req)
	assert.Equal(t, "APPROVED", req.Status)

	code, env = s.do(http.MethodPost, "/api/v1/admin/leave/requests/"+req.ID+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(http.MethodGet, "/api/v1/leave/requests/my", token, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []json.RawMessage
	s.decode(env, &mine)
	assert.Len(t, mine, 1)
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "attendance_open_records")
}
