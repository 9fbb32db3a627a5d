package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"flowdesks/backend/internal/attendance"
	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/scheduling"
	"flowdesks/backend/internal/service"
	pkgerrors "flowdesks/backend/pkg/errors"
	"flowdesks/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.ProfileResponse
	meErr         error

	gotAccess  string
	gotRefresh string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.gotRefresh = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, access, refresh string) error {
	m.gotAccess, m.gotRefresh = access, refresh
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.ProfileResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock AssignmentService ──

type mockAssignmentService struct {
	saveResult *dto.SaveAssignmentResponse
	saveErr    error
	listResult *dto.AssignmentListResponse
	listErr    error
	deleteErr  error

	gotRole  string
	gotScope string
}

func (m *mockAssignmentService) Save(_ context.Context, _ *dto.SaveAssignmentRequest, _ string) (*dto.SaveAssignmentResponse, error) {
	return m.saveResult, m.saveErr
}
func (m *mockAssignmentService) Get(_ context.Context, _, _, _ string) (*dto.AssignmentResponse, error) {
	return nil, service.ErrAssignmentNotFound
}
func (m *mockAssignmentService) ListByRange(_ context.Context, _ *dto.AssignmentListRequest, _, role string) (*dto.AssignmentListResponse, error) {
	m.gotRole = role
	return m.listResult, m.listErr
}
func (m *mockAssignmentService) UpdateDates(_ context.Context, _ string, _ *dto.UpdateDatesRequest, _ string) (*dto.AssignmentResponse, error) {
	return &dto.AssignmentResponse{}, nil
}
func (m *mockAssignmentService) Delete(_ context.Context, _, scope, _ string) (*dto.DeleteAssignmentResponse, error) {
	m.gotScope = scope
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return &dto.DeleteAssignmentResponse{Deleted: 1}, nil
}
func (m *mockAssignmentService) Reassign(_ context.Context, _ string, _ *dto.ReassignRequest, _ string) (*dto.ReassignmentLogResponse, error) {
	return nil, service.ErrSameEmployee
}
func (m *mockAssignmentService) ListReassignments(_ context.Context, _ string) ([]dto.ReassignmentLogResponse, error) {
	return nil, nil
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	punchResult *dto.AttendanceResponse
	punchErr    error
}

func (m *mockAttendanceService) Punch(_ context.Context, _ string, _ *dto.PunchRequest, _ string) (*dto.AttendanceResponse, error) {
	return m.punchResult, m.punchErr
}
func (m *mockAttendanceService) Get(_ context.Context, _, _, _ string) (*dto.AttendanceResponse, error) {
	return m.punchResult, m.punchErr
}

// ── Mock WorkPhotoService ──

type mockWorkPhotoService struct {
	uploadErr error
	gotReq    *dto.UploadWorkPhotosRequest
}

func (m *mockWorkPhotoService) Upload(_ context.Context, assignmentID string, req *dto.UploadWorkPhotosRequest, _ string) ([]dto.WorkPhotoResponse, error) {
	m.gotReq = req
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	out := make([]dto.WorkPhotoResponse, 0, len(req.Files))
	for range req.Files {
		out = append(out, dto.WorkPhotoResponse{AssignmentID: assignmentID, Phase: req.Phase})
	}
	return out, nil
}
func (m *mockWorkPhotoService) List(_ context.Context, _, _, _ string) ([]dto.WorkPhotoResponse, error) {
	return nil, nil
}
func (m *mockWorkPhotoService) Delete(_ context.Context, _, _, _ string) error {
	return service.ErrWorkPhotoNotFound
}

// ── Mock NotificationService ──

type mockNotificationService struct {
	realtime bool
}

func (m *mockNotificationService) Notify(_ context.Context, _ *model.Notification, _ interface{}) error {
	return nil
}
func (m *mockNotificationService) List(_ context.Context, _ string, _ *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	return []dto.NotificationResponse{}, 0, nil
}
func (m *mockNotificationService) UnreadCount(_ context.Context, _ string) (int64, error) {
	return 0, nil
}
func (m *mockNotificationService) MarkRead(_ context.Context, _, _ string) error {
	return service.ErrNotificationNotFound
}
func (m *mockNotificationService) MarkAllRead(_ context.Context, _ string) (int64, error) {
	return 3, nil
}
func (m *mockNotificationService) Realtime() bool { return m.realtime }
func (m *mockNotificationService) Stream(_ context.Context, _ string, _ func(dto.NotificationResponse)) error {
	return service.ErrRealtimeUnavailable
}

// ── Mock ExportService / CalendarService ──

type mockExportService struct {
	err error
}

func (m *mockExportService) PaylistXLSX(_ context.Context, _ *dto.ExportRequest) (*bytes.Buffer, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return bytes.NewBufferString("xlsx-bytes"), "paylist_20260301_20260401.xlsx", nil
}
func (m *mockExportService) PaylistCSV(_ context.Context, _ *dto.ExportRequest) (*bytes.Buffer, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return bytes.NewBufferString("a;b\n"), "paylist_20260301_20260401.csv", nil
}

type mockCalendarService struct{}

func (mockCalendarService) FeedFor(_ context.Context, _ string) (string, error) {
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func withCaller(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Set("access_token", "test-access-token")
		c.Next()
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@flowdesks.io", Password: "secret123"}))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("期望业务码 0，实际 %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@flowdesks.io", Password: "wrong"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("期望业务码 11001，实际 %d", resp.Code)
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	mock := &mockAuthService{refreshErr: service.ErrInvalidToken}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "stale"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
	if mock.gotRefresh != "stale" {
		t.Errorf("RefreshToken 未透传，实际 %q", mock.gotRefresh)
	}
}

func TestAuthHandler_Logout_PassesBothTokens(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", withCaller("u-1", "ADMIN"), h.Logout)
	w := serve(r, "POST", "/auth/logout", jsonBody(dto.LogoutRequest{RefreshToken: "refresh-1"}))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if mock.gotAccess != "test-access-token" || mock.gotRefresh != "refresh-1" {
		t.Errorf("登出 Token 透传错误: access=%q refresh=%q", mock.gotAccess, mock.gotRefresh)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.Me)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望 401，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentHandler Tests
// ═══════════════════════════════════════════════════════════

const validSaveBody = `{
	"employee_profile_id": "0b9e3c1a-5d2f-4c7e-9a8b-1f2e3d4c5b6a",
	"start_at": "2026-03-02T09:00:00Z",
	"end_at": "2026-03-02T17:00:00Z"
}`

func TestAssignmentHandler_Save_CreateReturns201(t *testing.T) {
	mock := &mockAssignmentService{saveResult: &dto.SaveAssignmentResponse{CreatedRepeats: 2}}
	h := NewAssignmentHandler(mock)

	r := gin.New()
	r.POST("/assignments", withCaller("admin-1", "ADMIN"), h.SaveAssignment)
	w := serve(r, "POST", "/assignments", strings.NewReader(validSaveBody))

	if w.Code != http.StatusCreated {
		t.Errorf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestAssignmentHandler_Save_EditReturns200(t *testing.T) {
	mock := &mockAssignmentService{saveResult: &dto.SaveAssignmentResponse{}}
	h := NewAssignmentHandler(mock)

	body := `{
		"assignment_id": "6f1c2d3e-4a5b-4c6d-8e7f-9a0b1c2d3e4f",
		"employee_profile_id": "0b9e3c1a-5d2f-4c7e-9a8b-1f2e3d4c5b6a",
		"start_at": "2026-03-02T09:00:00Z",
		"end_at": "2026-03-02T17:00:00Z",
		"scope": "single",
		"version": 1
	}`
	r := gin.New()
	r.POST("/assignments", withCaller("admin-1", "ADMIN"), h.SaveAssignment)
	w := serve(r, "POST", "/assignments", strings.NewReader(body))

	if w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
}

func TestAssignmentHandler_Save_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{
			name:       "重复排班",
			err:        &scheduling.ConflictError{Kind: scheduling.DoubleBookingConflict, Message: "该员工在该时段已有排班"},
			wantStatus: http.StatusConflict,
			wantCode:   20009,
		},
		{
			name:       "未归类的写入错误",
			err:        &scheduling.ConflictError{Kind: scheduling.Unclassified, Message: "boom"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   50000,
		},
		{name: "离线", err: pkgerrors.ErrOffline, wantStatus: http.StatusServiceUnavailable, wantCode: 50301},
		{name: "乐观锁", err: pkgerrors.ErrOptimisticLock, wantStatus: http.StatusConflict, wantCode: 10006},
		{name: "未选择范围", err: service.ErrScopeRequired, wantStatus: http.StatusBadRequest, wantCode: 20003},
		{name: "时间区间无效", err: service.ErrInvalidTimeRange, wantStatus: http.StatusBadRequest, wantCode: 20002},
		{name: "未知错误", err: errors.New("x"), wantStatus: http.StatusInternalServerError, wantCode: 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAssignmentHandler(&mockAssignmentService{saveErr: tt.err})

			r := gin.New()
			r.POST("/assignments", withCaller("admin-1", "ADMIN"), h.SaveAssignment)
			w := serve(r, "POST", "/assignments", strings.NewReader(validSaveBody))

			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d，实际 %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("期望业务码 %d，实际 %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAssignmentHandler_Save_UnclassifiedKeepsDetails(t *testing.T) {
	err := &scheduling.ConflictError{Kind: scheduling.Unclassified, Message: "value too long"}
	h := NewAssignmentHandler(&mockAssignmentService{saveErr: err})

	r := gin.New()
	r.POST("/assignments", withCaller("admin-1", "ADMIN"), h.SaveAssignment)
	w := serve(r, "POST", "/assignments", strings.NewReader(validSaveBody))

	if resp := parseResponse(w); resp.Details != "value too long" {
		t.Errorf("未归类错误应保留原始信息，实际 %q", resp.Details)
	}
}

func TestAssignmentHandler_List_RequiresRange(t *testing.T) {
	h := NewAssignmentHandler(&mockAssignmentService{})

	r := gin.New()
	r.GET("/assignments", withCaller("emp-1", "COLLABORATOR"), h.ListAssignments)
	w := serve(r, "GET", "/assignments", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 start/end 时期望 400，实际 %d", w.Code)
	}
}

func TestAssignmentHandler_List_PassesRole(t *testing.T) {
	mock := &mockAssignmentService{listResult: &dto.AssignmentListResponse{Stale: true}}
	h := NewAssignmentHandler(mock)

	r := gin.New()
	r.GET("/assignments", withCaller("emp-1", "COLLABORATOR"), h.ListAssignments)
	w := serve(r, "GET", "/assignments?start=2026-03-01T00:00:00Z&end=2026-04-01T00:00:00Z", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.gotRole != "COLLABORATOR" {
		t.Errorf("角色未透传，实际 %q", mock.gotRole)
	}
}

func TestAssignmentHandler_Delete_ScopeValidation(t *testing.T) {
	mock := &mockAssignmentService{}
	h := NewAssignmentHandler(mock)

	r := gin.New()
	r.DELETE("/assignments/:id", withCaller("admin-1", "ADMIN"), h.DeleteAssignment)

	if w := serve(r, "DELETE", "/assignments/a-1?scope=everything", nil); w.Code != http.StatusBadRequest {
		t.Errorf("非法 scope 期望 400，实际 %d", w.Code)
	}
	if w := serve(r, "DELETE", "/assignments/a-1?scope=series", nil); w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
	if mock.gotScope != "series" {
		t.Errorf("scope 未透传，实际 %q", mock.gotScope)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAttendanceHandler_Punch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    int
		wantDetails string
	}{
		{
			name:        "超出围栏",
			err:         &attendance.RejectionError{Kind: attendance.OutsideGeofence, Message: "不在打卡范围内"},
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    21002,
			wantDetails: "OUTSIDE_GEOFENCE",
		},
		{
			name:       "重复签到",
			err:        &attendance.TransitionError{From: attendance.StatusCheckedIn, Action: attendance.ActionIn},
			wantStatus: http.StatusConflict,
			wantCode:   21001,
		},
		{name: "非本人排班", err: service.ErrNotAssignmentOwner, wantStatus: http.StatusForbidden, wantCode: 10003},
		{name: "排班已取消", err: service.ErrAssignmentCancelled, wantStatus: http.StatusConflict, wantCode: 21005},
		{name: "离线", err: pkgerrors.ErrOffline, wantStatus: http.StatusServiceUnavailable, wantCode: 50301},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAttendanceHandler(&mockAttendanceService{punchErr: tt.err}, nil)

			r := gin.New()
			r.POST("/assignments/:id/punch", withCaller("emp-1", "COLLABORATOR"), h.Punch)
			w := serve(r, "POST", "/assignments/a-1/punch", strings.NewReader(`{"action":"IN"}`))

			if w.Code != tt.wantStatus {
				t.Errorf("期望 %d，实际 %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("期望业务码 %d，实际 %d", tt.wantCode, resp.Code)
			}
			if tt.wantDetails != "" && resp.Details != tt.wantDetails {
				t.Errorf("期望 details %q，实际 %q", tt.wantDetails, resp.Details)
			}
		})
	}
}

func TestAttendanceHandler_Punch_InvalidAction(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{}, nil)

	r := gin.New()
	r.POST("/assignments/:id/punch", withCaller("emp-1", "COLLABORATOR"), h.Punch)
	w := serve(r, "POST", "/assignments/a-1/punch", strings.NewReader(`{"action":"LUNCH"}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// WorkPhotoHandler Tests
// ═══════════════════════════════════════════════════════════

func multipartPhotos(t *testing.T, phase string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if phase != "" {
		mw.WriteField("phase", phase)
	}
	mw.WriteField("lat", "-23.55")
	mw.WriteField("lng", "-46.63")
	for name, data := range files {
		fw, err := mw.CreateFormFile(photoFormField, name)
		if err != nil {
			t.Fatalf("创建表单文件失败: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestWorkPhotoHandler_Upload_ReadsFiles(t *testing.T) {
	mock := &mockWorkPhotoService{}
	h := NewWorkPhotoHandler(mock)

	body, contentType := multipartPhotos(t, "BEFORE", map[string][]byte{
		"a.jpg": []byte("jpeg-1"),
		"b.jpg": []byte("jpeg-2"),
	})
	r := gin.New()
	r.POST("/assignments/:id/photos", withCaller("emp-1", "COLLABORATOR"), h.UploadPhotos)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/a-1/photos", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d: %s", w.Code, w.Body.String())
	}
	if mock.gotReq == nil || len(mock.gotReq.Files) != 2 {
		t.Fatalf("应读取 2 个文件")
	}
	if mock.gotReq.Reading() == nil || mock.gotReq.Reading().Latitude != -23.55 {
		t.Errorf("定位字段未绑定: %+v", mock.gotReq.Reading())
	}
}

func TestWorkPhotoHandler_Upload_MissingPhase(t *testing.T) {
	h := NewWorkPhotoHandler(&mockWorkPhotoService{})

	body, contentType := multipartPhotos(t, "", map[string][]byte{"a.jpg": []byte("x")})
	r := gin.New()
	r.POST("/assignments/:id/photos", withCaller("emp-1", "COLLABORATOR"), h.UploadPhotos)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/assignments/a-1/photos", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("缺少 phase 期望 400，实际 %d", w.Code)
	}
}

func TestWorkPhotoHandler_Upload_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{service.ErrTooManyPhotos, http.StatusBadRequest},
		{service.ErrPhotoTooLarge, http.StatusRequestEntityTooLarge},
		{service.ErrStorageUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		h := NewWorkPhotoHandler(&mockWorkPhotoService{uploadErr: tt.err})

		body, contentType := multipartPhotos(t, "AFTER", map[string][]byte{"a.jpg": []byte("x")})
		r := gin.New()
		r.POST("/assignments/:id/photos", withCaller("emp-1", "COLLABORATOR"), h.UploadPhotos)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/assignments/a-1/photos", body)
		req.Header.Set("Content-Type", contentType)
		r.ServeHTTP(w, req)

		if w.Code != tt.wantStatus {
			t.Errorf("%v: 期望 %d，实际 %d", tt.err, tt.wantStatus, w.Code)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// NotificationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestNotificationHandler_StreamUnavailable(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{})

	r := gin.New()
	r.GET("/notifications/stream", withCaller("emp-1", "COLLABORATOR"), h.Stream)
	w := serve(r, "GET", "/notifications/stream", nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("期望 503，实际 %d", w.Code)
	}
}

func TestNotificationHandler_MarkReadNotFound(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationService{})

	r := gin.New()
	r.POST("/notifications/:id/read", withCaller("emp-1", "COLLABORATOR"), h.MarkRead)
	w := serve(r, "POST", "/notifications/n-1/read", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望 404，实际 %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_PaylistXLSX(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, mockCalendarService{})

	r := gin.New()
	r.GET("/exports/paylist.xlsx", h.PaylistXLSX)
	w := serve(r, "GET", "/exports/paylist.xlsx?start=2026-03-01T00:00:00Z&end=2026-04-01T00:00:00Z", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "paylist_20260301_20260401.xlsx") {
		t.Errorf("Content-Disposition 错误: %s", cd)
	}
}

func TestExportHandler_PaylistCSV_InvalidRange(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrInvalidTimeRange}, mockCalendarService{})

	r := gin.New()
	r.GET("/exports/paylist.csv", h.PaylistCSV)
	w := serve(r, "GET", "/exports/paylist.csv?start=2026-04-01T00:00:00Z&end=2026-03-01T00:00:00Z", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望 400，实际 %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 25001 {
		t.Errorf("期望业务码 25001，实际 %d", resp.Code)
	}
}

func TestExportHandler_MyCalendar(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, mockCalendarService{})

	r := gin.New()
	r.GET("/calendar/me.ics", withCaller("emp-1", "COLLABORATOR"), h.MyCalendar)
	w := serve(r, "GET", "/calendar/me.ics", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type 错误: %s", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Errorf("响应体应为 iCalendar")
	}
}
