package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/middleware"
)

// RecordsService performs the staff writes
type RecordsService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentItem, error)
	UpsertMarks(ctx context.Context, req *dto.UpsertMarksRequest) (*dto.MarkItem, error)
	UpsertAttendance(ctx context.Context, req *dto.UpsertAttendanceRequest) (*dto.AttendanceItem, error)
	CreateFee(ctx context.Context, req *dto.CreateFeeRequest) (*dto.FeeItem, error)
	RecordPayment(ctx context.Context, feeID int64, req *dto.RecordPaymentRequest) (*dto.FeeItem, error)
	LinkProfile(ctx context.Context, req *dto.LinkProfileRequest) (*dto.ProfileResponse, error)
}

// RecordsController handles the staff-only record endpoints
type RecordsController struct {
	recordsService RecordsService
}

// NewRecordsController creates a new RecordsController
func NewRecordsController(recordsService RecordsService) *RecordsController {
	return &RecordsController{recordsService: recordsService}
}

// CreateStudent handles student creation
// @Summary Create a student
// @Description Creates the identifier and the student in one transaction.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=dto.StudentItem}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "Department not found"
// @Failure 409 {object} dto.APIResponse "Identifier or email already exists"
// @Router /admin/students [post]
func (c *RecordsController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.recordsService.CreateStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// UpsertMarks handles marks entry
// @Summary Set marks
// @Description Creates or updates the marks of a student in a subject.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpsertMarksRequest true "Marks"
// @Success 200 {object} dto.APIResponse{data=dto.MarkItem}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/marks [put]
func (c *RecordsController) UpsertMarks(ctx *gin.Context) {
	var req dto.UpsertMarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	mark, err := c.recordsService.UpsertMarks(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(mark))
}

// UpsertAttendance handles attendance entry
// @Summary Record attendance
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpsertAttendanceRequest true "Attendance"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceItem}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/attendance [put]
func (c *RecordsController) UpsertAttendance(ctx *gin.Context) {
	var req dto.UpsertAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	day, err := c.recordsService.UpsertAttendance(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(day))
}

// CreateFee handles fee creation
// @Summary Create a fee record
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateFeeRequest true "Fee"
// @Success 201 {object} dto.APIResponse{data=dto.FeeItem}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/fees [post]
func (c *RecordsController) CreateFee(ctx *gin.Context) {
	var req dto.CreateFeeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	fee, err := c.recordsService.CreateFee(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(fee))
}

// RecordPayment handles a fee payment
// @Summary Record a payment
// @Description Stores amount, status and payment date exactly as given.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Fee record ID"
// @Param request body dto.RecordPaymentRequest true "Payment"
// @Success 200 {object} dto.APIResponse{data=dto.FeeItem}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /admin/fees/{id}/payment [put]
func (c *RecordsController) RecordPayment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid fee record ID")
		errorDetail = errorDetail.WithDetails("Fee record ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.RecordPaymentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	fee, err := c.recordsService.RecordPayment(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fee))
}

// LinkProfile handles role assignment
// @Summary Link a profile
// @Description Assigns staff, student or parent role to a registered user.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.LinkProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Student already linked"
// @Router /admin/profiles [put]
func (c *RecordsController) LinkProfile(ctx *gin.Context) {
	var req dto.LinkProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	profile, err := c.recordsService.LinkProfile(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}
