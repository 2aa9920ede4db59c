package services

import (
	"sort"

	"github.com/yigit/schoolms/internal/app/models"
	"github.com/yigit/schoolms/internal/app/models/dto"
	"github.com/yigit/schoolms/internal/pkg/helpers"
)

// RankStudents orders totals by total marks descending; equal totals are ordered by
// identifier ascending so every student gets a distinct, stable rank.
func RankStudents(totals []models.StudentTotal) []models.StudentTotal {
	ranked := make([]models.StudentTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		return ranked[i].Identifier < ranked[j].Identifier
	})
	return ranked
}

// RankOf returns the total and 1-based rank of studentID within ranked. A student that is
// not present gets a zero total and rank.
func RankOf(ranked []models.StudentTotal, studentID int64) (total, rank int) {
	for i, t := range ranked {
		if t.StudentID == studentID {
			return t.Total, i + 1
		}
	}
	return 0, 0
}

// MarksPercentage expresses total as a share of the maximum over subjectCount subjects.
func MarksPercentage(total, subjectCount int) float64 {
	return helpers.Percentage(float64(total), float64(subjectCount*models.MaxMarksPerSubject))
}

// LeaderboardEntries converts ranked totals into leaderboard rows.
func LeaderboardEntries(ranked []models.StudentTotal, subjectCount int) []dto.LeaderboardEntry {
	entries := make([]dto.LeaderboardEntry, 0, len(ranked))
	for i, t := range ranked {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:       i + 1,
			Identifier: t.Identifier,
			Name:       t.Name,
			Department: t.Department,
			TotalMarks: t.Total,
			Percentage: MarksPercentage(t.Total, subjectCount),
		})
	}
	return entries
}

// AnalyzeSubject derives the displayed statistics from raw aggregates. A subject without
// marks reports zeros throughout.
func AnalyzeSubject(s models.SubjectStats) dto.SubjectAnalytics {
	out := dto.SubjectAnalytics{SubjectID: s.SubjectID, Subject: s.Name}
	if s.Count == 0 {
		return out
	}
	out.Average = helpers.Round2(float64(s.Sum) / float64(s.Count))
	out.Max = s.Max
	out.Min = s.Min
	out.Total = s.Count
	out.Fail = s.Fail
	out.PassRate = helpers.Percentage(float64(s.Count-s.Fail), float64(s.Count))
	return out
}

// SubjectStatsFromMarks aggregates raw marks of one subject. It mirrors the SQL aggregate and
// is used where marks are already in memory.
func SubjectStatsFromMarks(subjectID int64, name string, marks []int) models.SubjectStats {
	stats := models.SubjectStats{SubjectID: subjectID, Name: name, Count: len(marks)}
	for i, m := range marks {
		stats.Sum += m
		if i == 0 || m > stats.Max {
			stats.Max = m
		}
		if i == 0 || m < stats.Min {
			stats.Min = m
		}
		if m < models.FailThreshold {
			stats.Fail++
		}
	}
	return stats
}
