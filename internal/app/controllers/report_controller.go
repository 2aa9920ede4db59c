package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/middleware"
)

// ReportService is the part of services.ReportService the controllers use
type ReportService interface {
	Leaderboard(ctx context.Context, limit int) (*dto.LeaderboardResponse, error)
	SubjectAnalytics(ctx context.Context) (*dto.SubjectAnalyticsResponse, error)
}

// ReportController serves school-wide reports
type ReportController struct {
	reportService ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// Leaderboard handles the leaderboard
// @Summary Leaderboard
// @Description All students ranked by total marks, ties broken by identifier.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.LeaderboardResponse}
// @Router /leaderboard [get]
func (c *ReportController) Leaderboard(ctx *gin.Context) {
	board, err := c.reportService.Leaderboard(ctx.Request.Context(), 0)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(board))
}

// SubjectAnalytics handles per-subject statistics
// @Summary Subject analytics
// @Description Average, max, min, fail count (marks below 35) and pass rate per subject.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SubjectAnalyticsResponse}
// @Router /analytics/subjects [get]
func (c *ReportController) SubjectAnalytics(ctx *gin.Context) {
	analytics, err := c.reportService.SubjectAnalytics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(analytics))
}
