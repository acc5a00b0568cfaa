package service

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/repository"
	"github.com/skillsim/apiserver/internal/telemetry"
)

// ModuleCompletionReport is the organization dashboard's completion snapshot.
type ModuleCompletionReport struct {
	ModuleWiseRate       map[string]float64            `json:"module_wise_completion_rate"`
	ModuleWiseComparison map[string]float64            `json:"module_wise_completion_rate_comparison"`
	OverallRate          float64                       `json:"successful_completion_rate"`
	OverallComparison    float64                       `json:"successful_completion_rate_comparison"`
	MonthlyCounts        map[string]map[string]float64 `json:"monthly_counts"`
}

type CompletionService interface {
	// CompletionCounts returns the assignment total and how many of those
	// assignments were completed by the end of the given month of the given
	// year. An empty moduleName spans all modules.
	CompletionCounts(orgID uint, moduleName string, month time.Month, year int) (total, completed int64, err error)
	// Report builds the module-wise completion snapshot with previous-month
	// deltas and the month-by-month series since the organization was
	// created.
	Report(orgID uint) (*ModuleCompletionReport, error)
}

type completionService struct {
	moduleActivityRepo repository.ModuleActivityRepository
	moduleRepo         repository.ModuleRepository
	orgRepo            repository.OrganizationRepository
	now                func() time.Time
}

func NewCompletionService(
	moduleActivityRepo repository.ModuleActivityRepository,
	moduleRepo repository.ModuleRepository,
	orgRepo repository.OrganizationRepository,
) CompletionService {
	return &completionService{
		moduleActivityRepo: moduleActivityRepo,
		moduleRepo:         moduleRepo,
		orgRepo:            orgRepo,
		now:                time.Now,
	}
}

func (s *completionService) CompletionCounts(orgID uint, moduleName string, month time.Month, year int) (int64, int64, error) {
	total, err := s.moduleActivityRepo.CountAssigned(orgID, moduleName, time.Time{}, time.Time{})
	if err != nil {
		return 0, 0, err
	}
	// Completions count within the given year only, up to the end of the
	// given month.
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	completed, err := s.moduleActivityRepo.CountCompleted(orgID, moduleName, yearStart, monthEnd)
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// Rate derives a percentage from completion counts. A zero total is a zero
// rate, never a division error.
func Rate(total, completed int64) float64 {
	if total == 0 {
		return 0
	}
	return telemetry.Round2(float64(completed) / float64(total) * 100)
}

func (s *completionService) Report(orgID uint) (*ModuleCompletionReport, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, err
	}
	attrs, err := s.moduleRepo.ListAttributesByOrg(orgID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	month, year := now.Month(), now.Year()
	prevStart := PreviousMonth(now)
	prevMonth, prevYear := prevStart.Month(), prevStart.Year()

	report := &ModuleCompletionReport{
		ModuleWiseRate:       map[string]float64{},
		ModuleWiseComparison: map[string]float64{},
		MonthlyCounts:        map[string]map[string]float64{},
	}

	var sumCur, sumPrev float64
	for _, attr := range attrs {
		name := attr.Module.Name

		total, completed, err := s.CompletionCounts(orgID, name, month, year)
		if err != nil {
			return nil, err
		}
		cur := Rate(total, completed)

		prevTotal, prevCompleted, err := s.CompletionCounts(orgID, name, prevMonth, prevYear)
		if err != nil {
			return nil, err
		}
		prev := Rate(prevTotal, prevCompleted)

		report.ModuleWiseRate[name] = cur
		report.ModuleWiseComparison[name] = telemetry.Round2(cur - prev)
		sumCur += cur
		sumPrev += prev

		series, err := s.monthlySeries(orgID, name, org.CreatedAt, now)
		if err != nil {
			return nil, err
		}
		report.MonthlyCounts[name] = series
	}

	if n := len(attrs); n > 0 {
		report.OverallRate = telemetry.Round2(sumCur / float64(n))
		report.OverallComparison = telemetry.Round2((sumCur - sumPrev) / float64(n))
	}
	log.Debug().Uint("org_id", orgID).Int("modules", len(attrs)).Msg("completion report built")
	return report, nil
}

// monthlySeries folds completion rates over the months from the
// organization's creation month through the current month of this year.
func (s *completionService) monthlySeries(orgID uint, moduleName string, createdAt, now time.Time) (map[string]float64, error) {
	series := map[string]float64{}
	first := time.January
	if createdAt.Year() == now.Year() {
		first = createdAt.Month()
	}
	for m := first; m <= now.Month(); m++ {
		total, completed, err := s.CompletionCounts(orgID, moduleName, m, now.Year())
		if err != nil {
			return nil, err
		}
		series[m.String()] = Rate(total, completed)
	}
	return series, nil
}
