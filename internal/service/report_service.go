package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/repository"
	"github.com/skillsim/apiserver/internal/telemetry"
)

type ReportService interface {
	// AttemptWiseReport aggregates a user's attempts over a named window:
	// counts, time spent and a merged mistakes table.
	AttemptWiseReport(req dto.AttemptReportRequest) (*dto.AttemptReportResponse, error)
	LatestAttempts(orgID uint, limit int) ([]dto.LatestAttemptResponse, error)
	// AssignedUsers lists the performance of everyone assigned a module
	// configuration, most progressed first.
	AssignedUsers(orgID, moduleAttrID uint) ([]dto.AssignedUserPerformance, error)
	// LevelAttemptData renders the chart data of every attempt at a level.
	LevelAttemptData(levelActivityID uint) ([]map[string]any, error)
}

type reportService struct {
	attemptRepo        repository.AttemptRepository
	moduleActivityRepo repository.ModuleActivityRepository
	levelActivityRepo  repository.LevelActivityRepository
	moduleRepo         repository.ModuleRepository
	graphs             GraphService
	now                func() time.Time
}

func NewReportService(
	attemptRepo repository.AttemptRepository,
	moduleActivityRepo repository.ModuleActivityRepository,
	levelActivityRepo repository.LevelActivityRepository,
	moduleRepo repository.ModuleRepository,
	graphs GraphService,
) ReportService {
	return &reportService{
		attemptRepo:        attemptRepo,
		moduleActivityRepo: moduleActivityRepo,
		levelActivityRepo:  levelActivityRepo,
		moduleRepo:         moduleRepo,
		graphs:             graphs,
		now:                time.Now,
	}
}

// resolveWindow maps a window name to a [from, to) range.
func (s *reportService) resolveWindow(window, startDate, endDate string) (time.Time, time.Time, error) {
	now := s.now()
	switch window {
	case dto.WindowLast7Days:
		return now.AddDate(0, 0, -7), now, nil
	case dto.WindowLast30Days:
		return now.AddDate(0, 0, -30), now, nil
	case dto.WindowThisMonth:
		from, to := MonthWindow(now)
		return from, to, nil
	case dto.WindowLastMonth:
		from := PreviousMonth(now)
		return from, from.AddDate(0, 1, 0), nil
	case dto.WindowLast6Months:
		return now.AddDate(0, -6, 0), now, nil
	case dto.WindowThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), now, nil
	case dto.WindowCustom:
		from, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
		}
		to, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
		}
		return from, to.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown report window %q", window)
	}
}

func (s *reportService) AttemptWiseReport(req dto.AttemptReportRequest) (*dto.AttemptReportResponse, error) {
	from, to, err := s.resolveWindow(req.Window, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListForUserBetween(req.UserID, from, to)
	if err != nil {
		return nil, err
	}

	report := &dto.AttemptReportResponse{Attempts: len(attempts), Mistakes: []dto.MistakeRow{}}
	completedLevels := map[uint]bool{}
	mistakeIndex := map[string]int{}

	for i := range attempts {
		a := &attempts[i]
		report.TimeSpent += a.Duration
		if a.LevelActivity.Complete {
			completedLevels[a.LevelActivityID] = true
		}

		var payload map[string]any
		if err := json.Unmarshal(a.Data, &payload); err != nil {
			continue
		}
		moduleName := a.LevelActivity.ModuleActivity.Module.Module.Name
		mistakes, _, ok := telemetry.Collection(payload, "gameData.mistakes.name")
		if !ok {
			continue
		}
		for _, m := range mistakes {
			name, isStr := m["name"].(string)
			if !isStr {
				continue
			}
			count, _ := telemetry.Number(m["count"])
			key := strings.ToLower(name)
			pos, seen := mistakeIndex[key]
			if !seen {
				mistakeIndex[key] = len(report.Mistakes)
				report.Mistakes = append(report.Mistakes, dto.MistakeRow{
					Name:        name,
					ModuleNames: []string{moduleName},
				})
				pos = mistakeIndex[key]
			}
			report.Mistakes[pos].Count += count
			if !containsString(report.Mistakes[pos].ModuleNames, moduleName) {
				report.Mistakes[pos].ModuleNames = append(report.Mistakes[pos].ModuleNames, moduleName)
			}
		}
	}

	for _, row := range report.Mistakes {
		report.MistakesCount += row.Count
	}
	report.CompletedLevels = len(completedLevels)
	report.TimeSpentHMS = SecondsToHMS(report.TimeSpent)
	return report, nil
}

func (s *reportService) LatestAttempts(orgID uint, limit int) ([]dto.LatestAttemptResponse, error) {
	if limit <= 0 {
		limit = 15
	}
	attempts, err := s.attemptRepo.LatestByOrg(orgID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LatestAttemptResponse, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		resp := dto.LatestAttemptResponse{
			AttemptID:     a.ID,
			UserFullName:  a.LevelActivity.ModuleActivity.User.FullName(),
			ModuleName:    a.LevelActivity.ModuleActivity.Module.Module.Name,
			LevelName:     a.LevelActivity.Level.Name,
			AttemptNumber: a.AttemptNumber,
			Duration:      a.Duration,
			CreatedAt:     a.CreatedAt.Format(time.RFC3339),
		}
		var payload map[string]any
		if err := json.Unmarshal(a.Data, &payload); err == nil {
			if score, ok := telemetry.Number(payload["score"]); ok {
				resp.Score = &score
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *reportService) AssignedUsers(orgID, moduleAttrID uint) ([]dto.AssignedUserPerformance, error) {
	attrs, err := s.moduleRepo.FindAttributesByID(moduleAttrID)
	if err != nil {
		return nil, err
	}
	if attrs.OrganizationID != orgID {
		return nil, fmt.Errorf("module %d does not belong to organization %d", moduleAttrID, orgID)
	}
	totalLevels, err := s.moduleRepo.CountLevels(attrs.ModuleID, assessmentCategory, false)
	if err != nil {
		return nil, err
	}
	assessmentLevels, err := s.moduleRepo.CountLevels(attrs.ModuleID, assessmentCategory, true)
	if err != nil {
		return nil, err
	}
	totalLevels += assessmentLevels

	activities, err := s.moduleActivityRepo.ListByModuleAttr(moduleAttrID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AssignedUserPerformance, 0, len(activities))
	for i := range activities {
		ma := &activities[i]
		completed, err := s.levelActivityRepo.CountAllComplete(ma.ID)
		if err != nil {
			return nil, err
		}
		progress := 0.0
		if totalLevels > 0 {
			progress = telemetry.Round2(float64(completed) / float64(totalLevels) * 100)
		}
		out = append(out, dto.AssignedUserPerformance{
			UserID:    ma.UserID,
			FullName:  ma.User.FullName(),
			UserLogin: ma.User.UserID,
			Complete:  ma.Complete,
			Passed:    ma.Passed,
			Progress:  progress,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Progress > out[j].Progress })
	return out, nil
}

func (s *reportService) LevelAttemptData(levelActivityID uint) ([]map[string]any, error) {
	levelActivity, err := s.levelActivityRepo.FindByID(levelActivityID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListByLevelActivity(levelActivityID)
	if err != nil {
		return nil, err
	}

	passingScore := levelActivity.ModuleActivity.Module.PassingScore
	out := make([]map[string]any, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		data, err := s.graphs.AttemptData(a, passingScore)
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]any{
			"user":           levelActivity.ModuleActivity.User.FullName(),
			"attempt_number": a.AttemptNumber,
			"data":           data,
			"duration":       a.Duration,
			"start_time":     a.StartTime,
			"end_time":       a.EndTime,
		})
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
