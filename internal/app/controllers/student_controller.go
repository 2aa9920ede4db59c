package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/middleware"
	"github.com/yigit/schoolms/internal/pkg/apperrors"
)

// StudentService is the read side of services.StudentService
type StudentService interface {
	List(ctx context.Context, search, rawPage string) (*dto.StudentListResponse, error)
	Detail(ctx context.Context, identifier string) (*dto.StudentDetailResponse, error)
	Marks(ctx context.Context, identifier string) (*dto.StudentMarksResponse, error)
	Attendance(ctx context.Context, identifier string) (*dto.StudentAttendanceResponse, error)
	Fees(ctx context.Context, identifier string) (*dto.StudentFeesResponse, error)
	AttendanceChart(ctx context.Context, studentID int64) (*dto.AttendanceChart, error)
}

// StudentController serves the student listing and per-student pages
type StudentController struct {
	studentService StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

func currentRole(ctx *gin.Context) (appauth.Role, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return nil, false
	}
	return identity.Role, true
}

// List handles the paginated student listing
// @Summary List students
// @Description Staff only. Case-insensitive search on name or identifier, 10 per page; out-of-range pages are clamped.
// @Tags students
// @Produce json
// @Param search query string false "Name or identifier fragment"
// @Param page query string false "Page number"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Failure 403 {object} dto.APIResponse "Not staff"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	role, ok := currentRole(ctx)
	if !ok {
		return
	}
	if err := appauth.CanListStudents(role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	list, err := c.studentService.List(ctx.Request.Context(), ctx.Query("search"), ctx.Query("page"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list))
}

// viewable checks the caller may see the student in the path and returns its identifier.
func viewable(ctx *gin.Context) (string, bool) {
	role, ok := currentRole(ctx)
	if !ok {
		return "", false
	}
	identifier := ctx.Param("identifier")
	if err := appauth.CanViewStudent(role, identifier); err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return identifier, true
}

// Detail handles a student profile with its summary
// @Summary Student profile
// @Description Staff see every student, a student its own record, a parent the related student's record.
// @Tags students
// @Produce json
// @Param identifier path string true "Student identifier"
// @Success 200 {object} dto.APIResponse{data=dto.StudentDetailResponse}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /students/{identifier} [get]
func (c *StudentController) Detail(ctx *gin.Context) {
	identifier, ok := viewable(ctx)
	if !ok {
		return
	}
	detail, err := c.studentService.Detail(ctx.Request.Context(), identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// Marks handles the marks of a student
// @Summary Student marks
// @Tags students
// @Produce json
// @Param identifier path string true "Student identifier"
// @Success 200 {object} dto.APIResponse{data=dto.StudentMarksResponse}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /students/{identifier}/marks [get]
func (c *StudentController) Marks(ctx *gin.Context) {
	identifier, ok := viewable(ctx)
	if !ok {
		return
	}
	marks, err := c.studentService.Marks(ctx.Request.Context(), identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(marks))
}

// Attendance handles the attendance of a student
// @Summary Student attendance
// @Tags students
// @Produce json
// @Param identifier path string true "Student identifier"
// @Success 200 {object} dto.APIResponse{data=dto.StudentAttendanceResponse}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /students/{identifier}/attendance [get]
func (c *StudentController) Attendance(ctx *gin.Context) {
	identifier, ok := viewable(ctx)
	if !ok {
		return
	}
	attendance, err := c.studentService.Attendance(ctx.Request.Context(), identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attendance))
}

// Fees handles the fee records of a student
// @Summary Student fees
// @Tags students
// @Produce json
// @Param identifier path string true "Student identifier"
// @Success 200 {object} dto.APIResponse{data=dto.StudentFeesResponse}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /students/{identifier}/fees [get]
func (c *StudentController) Fees(ctx *gin.Context) {
	identifier, ok := viewable(ctx)
	if !ok {
		return
	}
	fees, err := c.studentService.Fees(ctx.Request.Context(), identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fees))
}

// AttendanceChart serves present/absent counts for the logged-in student, without the
// response envelope.
// @Summary Attendance chart data
// @Description Students only. Returns {"labels":["Present","Absent"],"data":[present,absent]}.
// @Tags students
// @Produce json
// @Success 200 {object} dto.AttendanceChart
// @Failure 403 {object} dto.APIResponse
// @Router /api/attendance-chart [get]
func (c *StudentController) AttendanceChart(ctx *gin.Context) {
	role, ok := currentRole(ctx)
	if !ok {
		return
	}
	ref, err := appauth.ChartStudent(role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	chart, err := c.studentService.AttendanceChart(ctx.Request.Context(), ref.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chart)
}
