package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

type stubStudentService struct {
	listed []string
}

func (s *stubStudentService) List(_ context.Context, search, rawPage string) (*dto.StudentListResponse, error) {
	s.listed = append(s.listed, search+"|"+rawPage)
	return &dto.StudentListResponse{
		Students:   []dto.StudentItem{{ID: 10, Identifier: "STU-1010", Name: "Alice"}},
		TotalCount: 1,
		Search:     search,
		Pagination: dto.PaginationInfo{CurrentPage: 1, PageSize: 10, TotalItems: 1, TotalPages: 1},
	}, nil
}

func (s *stubStudentService) Detail(_ context.Context, identifier string) (*dto.StudentDetailResponse, error) {
	if identifier != "STU-1010" && identifier != "STU-2020" {
		return nil, apperrors.ErrStudentNotFound
	}
	return &dto.StudentDetailResponse{
		Student: dto.StudentItem{Identifier: identifier},
		Summary: dto.StudentSummary{TotalMarks: 420, Rank: 1, AttendancePercentage: 90},
	}, nil
}

func (s *stubStudentService) Marks(_ context.Context, identifier string) (*dto.StudentMarksResponse, error) {
	return &dto.StudentMarksResponse{}, nil
}

func (s *stubStudentService) Attendance(_ context.Context, identifier string) (*dto.StudentAttendanceResponse, error) {
	return &dto.StudentAttendanceResponse{}, nil
}

func (s *stubStudentService) Fees(_ context.Context, identifier string) (*dto.StudentFeesResponse, error) {
	return &dto.StudentFeesResponse{}, nil
}

func (s *stubStudentService) AttendanceChart(_ context.Context, studentID int64) (*dto.AttendanceChart, error) {
	return &dto.AttendanceChart{Labels: []string{"Present", "Absent"}, Data: []int{9, 1}}, nil
}

func newStudentRouter(svc StudentService) *gin.Engine {
	c := NewStudentController(svc)
	r := newEngine()
	authed := r.Group("", newAuthMiddleware().RequireAuth())
	authed.GET("/students", c.List)
	authed.GET("/students/:identifier", c.Detail)
	authed.GET("/students/:identifier/marks", c.Marks)
	authed.GET("/students/:identifier/attendance", c.Attendance)
	authed.GET("/students/:identifier/fees", c.Fees)
	authed.GET("/api/attendance-chart", c.AttendanceChart)
	return r
}

func TestStudentList_StaffOnly(t *testing.T) {
	svc := &stubStudentService{}
	r := newStudentRouter(svc)

	w := request(r, http.MethodGet, "/students?search=ali&page=7", "staff", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list dto.StudentListResponse
	decodeEnvelope(t, w, &list)
	assert.Len(t, list.Students, 1)
	assert.Equal(t, []string{"ali|7"}, svc.listed)

	for _, token := range []string{"student", "parent"} {
		w := request(r, http.MethodGet, "/students", token, nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code, token)
	}
	assert.Len(t, svc.listed, 1)
}

func TestStudentDetail_Visibility(t *testing.T) {
	r := newStudentRouter(&stubStudentService{})

	tests := []struct {
		token  string
		path   string
		status int
	}{
		{"staff", "/students/STU-2020", http.StatusOK},
		{"staff", "/students/STU-9999", http.StatusNotFound},
		{"student", "/students/STU-1010", http.StatusOK},
		{"student", "/students/STU-2020", http.StatusForbidden},
		{"parent", "/students/STU-1010/marks", http.StatusOK},
		{"parent", "/students/STU-1010/attendance", http.StatusOK},
		{"parent", "/students/STU-1010/fees", http.StatusOK},
		{"parent", "/students/STU-2020/fees", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.token+" "+tt.path, func(t *testing.T) {
			w := request(r, http.MethodGet, tt.path, tt.token, nil, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestAttendanceChart(t *testing.T) {
	r := newStudentRouter(&stubStudentService{})

	w := request(r, http.MethodGet, "/api/attendance-chart", "student", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"labels":["Present","Absent"],"data":[9,1]}`, w.Body.String())

	for _, token := range []string{"staff", "parent"} {
		w := request(r, http.MethodGet, "/api/attendance-chart", token, nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code, token)
	}
}

type stubRecordsService struct {
	RecordsService
	paidID int64
}

func (s *stubRecordsService) CreateStudent(_ context.Context, req *dto.CreateStudentRequest) (*dto.StudentItem, error) {
	if req.Identifier == "STU-1010" {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}
	return &dto.StudentItem{ID: 11, Identifier: req.Identifier, Name: req.Name, Age: 18}, nil
}

func (s *stubRecordsService) RecordPayment(_ context.Context, feeID int64, req *dto.RecordPaymentRequest) (*dto.FeeItem, error) {
	s.paidID = feeID
	return &dto.FeeItem{ID: feeID, Status: req.Status}, nil
}

func newRecordsRouter(svc RecordsService) *gin.Engine {
	c := NewRecordsController(svc)
	r := newEngine()
	r.POST("/admin/students", c.CreateStudent)
	r.PUT("/admin/fees/:id/payment", c.RecordPayment)
	return r
}

func TestCreateStudent(t *testing.T) {
	r := newRecordsRouter(&stubRecordsService{})
	const body = `{"identifier":"%s","departmentId":1,"name":"Zed","email":"zed@example.com","address":"1 Road"}`

	w := request(r, http.MethodPost, "/admin/students", "", strings.NewReader(strings.Replace(body, "%s", "STU-3030", 1)), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item dto.StudentItem
	decodeEnvelope(t, w, &item)
	assert.Equal(t, "STU-3030", item.Identifier)

	w = request(r, http.MethodPost, "/admin/students", "", strings.NewReader(strings.Replace(body, "%s", "STU-1010", 1)), "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(r, http.MethodPost, "/admin/students", "", strings.NewReader(`{"identifier":"STU-4040"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, dto.ErrorCodeValidationFailed, env.Error.Code)
}

func TestRecordPayment(t *testing.T) {
	svc := &stubRecordsService{}
	r := newRecordsRouter(svc)

	w := request(r, http.MethodPut, "/admin/fees/abc/payment", "", strings.NewReader(`{"status":"paid"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPut, "/admin/fees/7/payment", "", strings.NewReader(`{"status":"refunded"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(r, http.MethodPut, "/admin/fees/7/payment", "", strings.NewReader(`{"amountPaid":"150","status":"paid","paymentDate":"2025-03-01"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(7), svc.paidID)
}
