package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/middleware"
)

// DepartmentService manages departments
type DepartmentService interface {
	Create(ctx context.Context, name string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
}

// SubjectService manages subjects
type SubjectService interface {
	Create(ctx context.Context, name string) (*dto.SubjectResponse, error)
	List(ctx context.Context) ([]dto.SubjectResponse, error)
}

// DepartmentController handles the department and subject catalogs
type DepartmentController struct {
	departmentService DepartmentService
	subjectService    SubjectService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService DepartmentService, subjectService SubjectService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
		subjectService:    subjectService,
	}
}

// CreateDepartment handles department creation
// @Summary Create a new department
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateDepartmentRequest true "Department information"
// @Success 201 {object} dto.APIResponse{data=dto.DepartmentResponse} "Department created successfully"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 403 {object} dto.APIResponse "Not staff"
// @Failure 409 {object} dto.APIResponse "Department already exists"
// @Router /admin/departments [post]
func (c *DepartmentController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	department, err := c.departmentService.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(department))
}

// GetAllDepartments retrieves all departments
// @Summary Get all departments
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.DepartmentResponse} "Departments retrieved successfully"
// @Router /admin/departments [get]
func (c *DepartmentController) GetAllDepartments(ctx *gin.Context) {
	departments, err := c.departmentService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(departments))
}

// CreateSubject handles subject creation
// @Summary Create a new subject
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.CreateSubjectRequest true "Subject information"
// @Success 201 {object} dto.APIResponse{data=dto.SubjectResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 403 {object} dto.APIResponse "Not staff"
// @Failure 409 {object} dto.APIResponse "Subject already exists"
// @Router /admin/subjects [post]
func (c *DepartmentController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subject, err := c.subjectService.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(subject))
}

// GetAllSubjects retrieves all subjects
// @Summary Get all subjects
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.SubjectResponse}
// @Router /admin/subjects [get]
func (c *DepartmentController) GetAllSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subjects))
}
