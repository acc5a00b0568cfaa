package service

import (
	"fmt"
	"time"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/repository"
)

// OrganizationUsage holds duration rollups of an organization's logged
// simulator time.
type OrganizationUsage struct {
	Monthly   map[string]int64 `json:"monthly"`
	Quarterly map[string]int64 `json:"quarterly"`
	Yearly    map[int]int64    `json:"yearly"`
}

type UsageService interface {
	// ModuleUsage sums logged seconds per module over the windows "all",
	// "1m", "6m" and "1y".
	ModuleUsage(orgID uint) (map[string][]dto.ModuleUsageResponse, error)
	OrganizationUsage(orgID uint) (*OrganizationUsage, error)
}

type usageService struct {
	userActivityRepo repository.UserActivityRepository
	orgRepo          repository.OrganizationRepository
	now              func() time.Time
}

func NewUsageService(
	userActivityRepo repository.UserActivityRepository,
	orgRepo repository.OrganizationRepository,
) UsageService {
	return &usageService{
		userActivityRepo: userActivityRepo,
		orgRepo:          orgRepo,
		now:              time.Now,
	}
}

// SecondsToHMS formats a duration as HH:MM:SS for the dashboards.
func SecondsToHMS(seconds int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func (s *usageService) ModuleUsage(orgID uint) (map[string][]dto.ModuleUsageResponse, error) {
	now := s.now()
	windows := []struct {
		name string
		from time.Time
	}{
		{"all", time.Time{}},
		{"1m", now.AddDate(0, -1, 0)},
		{"6m", now.AddDate(0, -6, 0)},
		{"1y", now.AddDate(-1, 0, 0)},
	}

	out := make(map[string][]dto.ModuleUsageResponse, len(windows))
	for _, w := range windows {
		rows, err := s.userActivityRepo.SumDurationByModule(orgID, w.from, time.Time{})
		if err != nil {
			return nil, err
		}
		usage := make([]dto.ModuleUsageResponse, 0, len(rows))
		for _, row := range rows {
			usage = append(usage, dto.ModuleUsageResponse{
				ModuleID:   row.ModuleID,
				ModuleName: row.ModuleName,
				Duration:   row.Duration,
				Display:    SecondsToHMS(row.Duration),
			})
		}
		out[w.name] = usage
	}
	return out, nil
}

func (s *usageService) OrganizationUsage(orgID uint) (*OrganizationUsage, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, err
	}

	events, err := s.userActivityRepo.ListByOrgBetween(orgID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	usage := &OrganizationUsage{
		Monthly:   map[string]int64{},
		Quarterly: map[string]int64{},
		Yearly:    map[int]int64{},
	}

	// Pre-seed the months and quarters since the organization came online
	// so quiet periods still render as zero.
	firstMonth := time.January
	if org.CreatedAt.Year() == now.Year() {
		firstMonth = org.CreatedAt.Month()
	}
	for m := firstMonth; m <= now.Month(); m++ {
		usage.Monthly[m.String()] = 0
	}
	for q := QuarterOf(firstMonth); q <= QuarterOf(now.Month()); q++ {
		usage.Quarterly[QuarterLabels[q-1]] = 0
	}

	for _, e := range events {
		usage.Yearly[e.StartTime.Year()] += e.Duration
		if e.StartTime.Year() != now.Year() {
			continue
		}
		monthKey := e.StartTime.Month().String()
		if _, seeded := usage.Monthly[monthKey]; seeded {
			usage.Monthly[monthKey] += e.Duration
		}
		quarterKey := QuarterLabels[QuarterOf(e.StartTime.Month())-1]
		if _, seeded := usage.Quarterly[quarterKey]; seeded {
			usage.Quarterly[quarterKey] += e.Duration
		}
	}
	return usage, nil
}
