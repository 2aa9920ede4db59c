package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolms/internal/app/models/dto"
)

// ReportService builds the leaderboard and subject analytics
type ReportService struct {
	reports  ReportStore
	subjects SubjectStore
	logger   zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reports ReportStore, subjects SubjectStore, logger zerolog.Logger) *ReportService {
	return &ReportService{reports: reports, subjects: subjects, logger: logger}
}

// Leaderboard ranks all students. A positive limit keeps only the top entries.
func (s *ReportService) Leaderboard(ctx context.Context, limit int) (*dto.LeaderboardResponse, error) {
	totals, err := s.reports.StudentTotals(ctx)
	if err != nil {
		return nil, err
	}
	subjectCount, err := s.subjects.Count(ctx)
	if err != nil {
		return nil, err
	}

	ranked := RankStudents(totals)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return &dto.LeaderboardResponse{
		Entries:      LeaderboardEntries(ranked, int(subjectCount)),
		SubjectCount: int(subjectCount),
	}, nil
}

// SubjectAnalytics reports score statistics per subject, ordered by subject name
func (s *ReportService) SubjectAnalytics(ctx context.Context) (*dto.SubjectAnalyticsResponse, error) {
	stats, err := s.reports.SubjectStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubjectAnalytics, 0, len(stats))
	for _, st := range stats {
		out = append(out, AnalyzeSubject(st))
	}
	return &dto.SubjectAnalyticsResponse{Subjects: out}, nil
}
