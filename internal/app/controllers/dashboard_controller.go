package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/schoolms/internal/app/auth"
	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/middleware"
)

// DashboardService builds the role dashboards
type DashboardService interface {
	Staff(ctx context.Context) (*dto.StaffDashboard, error)
	ForStudent(ctx context.Context, ref appauth.StudentRef, viewer models.ProfileRole) (*dto.StudentDashboard, error)
}

// DashboardController serves the dashboards. Role checks happen in RoleRequired.
type DashboardController struct {
	dashboardService DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Index sends the caller to the dashboard of its role
// @Summary Dashboard redirect
// @Tags dashboards
// @Produce json
// @Success 302 {object} dto.APIResponse{data=dto.RedirectResponse}
// @Router /dashboard [get]
func (c *DashboardController) Index(ctx *gin.Context) {
	role, ok := currentRole(ctx)
	if !ok {
		return
	}
	middleware.Redirect(ctx, appauth.DashboardPath(role))
}

// Staff handles the staff dashboard
// @Summary Staff dashboard
// @Tags dashboards
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StaffDashboard}
// @Router /dashboard/staff [get]
func (c *DashboardController) Staff(ctx *gin.Context) {
	dashboard, err := c.dashboardService.Staff(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard, middleware.Flashes(ctx)...))
}

// Student handles the student and parent dashboards
// @Summary Student or parent dashboard
// @Description The linked student's record, summary, marks, recent attendance and fees.
// @Tags dashboards
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboard}
// @Router /dashboard/student [get]
// @Router /dashboard/parent [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	role, ok := currentRole(ctx)
	if !ok {
		return
	}
	ref, linked := appauth.LinkedStudent(role)
	if !linked {
		middleware.Redirect(ctx, appauth.DashboardPath(role))
		return
	}

	dashboard, err := c.dashboardService.ForStudent(ctx.Request.Context(), ref, role.Name())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dashboard, middleware.Flashes(ctx)...))
}
