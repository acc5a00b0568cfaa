package service

import (
	"time"

	"github.com/skillsim/apiserver/internal/repository"
	"github.com/skillsim/apiserver/internal/telemetry"
)

// TrendService measures completion velocity against the backlog carried over
// from the previous period, which distinguishes it from the point-in-time
// completion rate.
type TrendService interface {
	// MonthlyTrend computes the trend for the month containing ref.
	MonthlyTrend(orgID uint, moduleName string, ref time.Time) (float64, error)
	// QuarterlyTrends returns label->trend for every quarter of ref's year
	// up to and including the current one.
	QuarterlyTrends(orgID uint, moduleName string, ref time.Time) (map[string]float64, error)
}

type trendService struct {
	moduleActivityRepo repository.ModuleActivityRepository
	now                func() time.Time
}

func NewTrendService(moduleActivityRepo repository.ModuleActivityRepository) TrendService {
	return &trendService{moduleActivityRepo: moduleActivityRepo, now: time.Now}
}

// trend = completed(current) / (assigned(current) + assigned(previous) -
// completed(previous)) * 100, and 0 whenever the denominator is not positive.
func (s *trendService) trendBetween(orgID uint, moduleName string, curFrom, curTo, prevFrom, prevTo time.Time) (float64, error) {
	curAssigned, err := s.moduleActivityRepo.CountAssigned(orgID, moduleName, curFrom, curTo)
	if err != nil {
		return 0, err
	}
	curCompleted, err := s.moduleActivityRepo.CountCompleted(orgID, moduleName, curFrom, curTo)
	if err != nil {
		return 0, err
	}
	prevAssigned, err := s.moduleActivityRepo.CountAssigned(orgID, moduleName, prevFrom, prevTo)
	if err != nil {
		return 0, err
	}
	prevCompleted, err := s.moduleActivityRepo.CountCompleted(orgID, moduleName, prevFrom, prevTo)
	if err != nil {
		return 0, err
	}

	pending := curAssigned + prevAssigned - prevCompleted
	if pending <= 0 {
		return 0, nil
	}
	return telemetry.Round2(float64(curCompleted) / float64(pending) * 100), nil
}

func (s *trendService) MonthlyTrend(orgID uint, moduleName string, ref time.Time) (float64, error) {
	curFrom, curTo := MonthWindow(ref)
	prevFrom := PreviousMonth(ref)
	return s.trendBetween(orgID, moduleName, curFrom, curTo, prevFrom, curFrom)
}

func (s *trendService) QuarterlyTrends(orgID uint, moduleName string, ref time.Time) (map[string]float64, error) {
	currentQuarter := QuarterOf(ref.Month())
	year := ref.Year()

	out := make(map[string]float64, currentQuarter)
	for q := 1; q <= currentQuarter; q++ {
		curStart, curEnd := QuarterDates(q, year)
		// Out-of-range quarters clamp to Q1, so Q1's "previous" window is
		// Q1 itself.
		prevStart, prevEnd := QuarterDates(q-1, year)

		trend, err := s.trendBetween(orgID, moduleName,
			curStart, curEnd.AddDate(0, 0, 1),
			prevStart, prevEnd.AddDate(0, 0, 1))
		if err != nil {
			return nil, err
		}
		out[QuarterLabels[q-1]] = trend
	}
	return out, nil
}
