package service

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/skillsim/apiserver/internal/telemetry"
)

// VehicleScoring holds the rule tables used to grade one module family's
// telemetry. All KPI and mistake keys are matched after trimming and
// lowercasing, except FreeScoreKPIs which match the client strings verbatim.
type VehicleScoring struct {
	FreeScoreKPIs    map[string]float64 `json:"free_score_kpis"`
	TableKPIs        map[string]float64 `json:"table_kpis"`
	MistakePenalties map[string]float64 `json:"mistake_penalties"`
	// TimePenalty is added when the driven time exceeds the ideal time by
	// more than TimeGraceRatio of the ideal.
	TimePenalty    float64 `json:"time_penalty"`
	TimeGraceRatio float64 `json:"time_grace_ratio"`
	MaxScore       float64 `json:"max_score"`
	// AlwaysComplete marks families whose levels complete regardless of
	// the score and the module's passing score.
	AlwaysComplete bool `json:"always_complete"`
	// MistakeKPIMapping links a mistake name to the inspection-flow step it
	// voids, used when rebuilding per-step scores for the report views.
	MistakeKPIMapping map[string]string `json:"mistake_kpi_mapping"`
	// PathFlowStep names the inspection-flow step that carries the
	// ideal-vs-actual route comparison result.
	PathFlowStep string `json:"path_flow_step"`
}

// ScoringConfig maps lowercased module names to their grading tables.
// Modules without an entry keep the score the client sent, untouched.
type ScoringConfig struct {
	Families map[string]VehicleScoring `json:"families"`
}

func (c *ScoringConfig) Family(moduleName string) (VehicleScoring, bool) {
	fam, ok := c.Families[strings.ToLower(strings.TrimSpace(moduleName))]
	return fam, ok
}

// LoadScoringConfig reads grading tables from a JSON file. An empty path
// returns the compiled-in defaults.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	if path == "" {
		return DefaultScoringConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring config %s: %w", path, err)
	}
	var cfg ScoringConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scoring config %s: %w", path, err)
	}
	return &cfg, nil
}

// Score grades a raw telemetry payload and returns the percentage, rounded
// to two decimals. Absent sections of the payload are treated as the
// corresponding feature being switched off in that client build.
func (v VehicleScoring) Score(data map[string]any) float64 {
	score := 0.0

	score += v.freeKPIPoints(data)
	score += v.tableKPIPoints(data)
	score += v.mistakePoints(data)
	score += v.timePoints(data)

	if v.MaxScore <= 0 {
		return telemetry.Round2(score)
	}
	return telemetry.Round2(score / v.MaxScore * 100)
}

// freeKPIPoints awards points for entries of the first inspection's
// actualFlow that appear in the free-score table, matched verbatim.
func (v VehicleScoring) freeKPIPoints(data map[string]any) float64 {
	pts := 0.0
	raw, ok := telemetry.Lookup(data, "gameData.inspections")
	if !ok {
		return 0
	}
	inspections, ok := raw.([]any)
	if !ok || len(inspections) == 0 {
		return 0
	}
	first, ok := inspections[0].(map[string]any)
	if !ok {
		return 0
	}
	flow, ok := first["actualFlow"].([]any)
	if !ok {
		return 0
	}
	for _, step := range flow {
		name, isStr := step.(string)
		if !isStr {
			continue
		}
		pts += v.FreeScoreKPIs[name]
	}
	return pts
}

// tableKPIPoints awards per-check points for ticked pre-operation checks.
// When the client sent no tableKpis at all, the full table is awarded.
func (v VehicleScoring) tableKPIPoints(data map[string]any) float64 {
	raw, ok := telemetry.Lookup(data, "gameData.tableKpis")
	kpis, isArr := raw.([]any)
	if !ok || !isArr || len(kpis) == 0 {
		total := 0.0
		for _, p := range v.TableKPIs {
			total += p
		}
		return total
	}
	pts := 0.0
	for _, e := range kpis {
		kpi, isObj := e.(map[string]any)
		if !isObj {
			continue
		}
		cond, isStr := kpi["preCheckCondition"].(string)
		if !isStr {
			continue
		}
		checked, isBool := kpi["hasChecked"].(bool)
		if !isBool || !checked {
			continue
		}
		pts += v.TableKPIs[strings.ToLower(strings.TrimSpace(cond))]
	}
	return pts
}

// mistakePoints grants the full penalty budget and then deducts the penalty
// of every committed mistake. A payload without a mistakes key contributes
// nothing, so older client builds neither gain nor lose points here.
func (v VehicleScoring) mistakePoints(data map[string]any) float64 {
	raw, ok := telemetry.Lookup(data, "gameData.mistakes")
	if !ok {
		return 0
	}
	pts := 0.0
	for _, p := range v.MistakePenalties {
		pts += p
	}
	mistakes, isArr := raw.([]any)
	if !isArr {
		return pts
	}
	for _, e := range mistakes {
		m, isObj := e.(map[string]any)
		if !isObj {
			continue
		}
		name, isStr := m["name"].(string)
		if !isStr {
			continue
		}
		pts -= v.MistakePenalties[strings.ToLower(strings.TrimSpace(name))]
	}
	return pts
}

// timePoints applies the time adjustment when the driven route time exceeded
// the ideal.
func (v VehicleScoring) timePoints(data map[string]any) float64 {
	if v.PathTimeExceeded(data) {
		return v.TimePenalty
	}
	return 0
}

// PathTimeExceeded compares the summed ideal route times against the driven
// time, grouped per route. The staging route "path-1" never counts. True when
// the ideal was exceeded by more than the grace ratio.
func (v VehicleScoring) PathTimeExceeded(data map[string]any) bool {
	if _, ok := telemetry.Lookup(data, "gameData.path"); !ok {
		return false
	}

	idealTotal := 0.0
	if ideals, _, ok := telemetry.Collection(data, "gameData.path.idealTime.timeTaken"); ok {
		for _, it := range ideals {
			if t, isNum := telemetry.Number(it["timeTaken"]); isNum {
				idealTotal += t
			}
		}
	}

	actualTotal := 0.0
	if samples, _, ok := telemetry.Collection(data, "gameData.path.vehicleData.time"); ok {
		groups := map[string][]float64{}
		order := []string{}
		for _, s := range samples {
			name, _ := s["path"].(string)
			name = strings.ToLower(name)
			if name == "path-1" {
				continue
			}
			t, isNum := telemetry.Number(s["time"])
			if !isNum {
				continue
			}
			if _, seen := groups[name]; !seen {
				order = append(order, name)
			}
			groups[name] = append(groups[name], t)
		}
		for _, name := range order {
			times := groups[name]
			actualTotal += times[len(times)-1] - times[0]
		}
	}

	diff := actualTotal - idealTotal
	return diff > 0 && diff > idealTotal*v.TimeGraceRatio
}

// DefaultScoringConfig returns the grading tables for the built-in vehicle
// simulators, used when no scoring file is configured.
func DefaultScoringConfig() *ScoringConfig {
	forklift := VehicleScoring{
		FreeScoreKPIs: map[string]float64{
			"Choose to turn off the unit before get out of the MHE": 2,
		},
		TableKPIs: map[string]float64{
			"brake condition":            2,
			"fork condition":             2,
			"alert light condition":      1,
			"camera condition":           1,
			"tilt condition":             2,
			"steer condition":            2,
			"safety belt condition":      1,
			"fire extiguisher condition": 1,
			"rearviews mirror condition": 1,
			"blue light condition":       1,
			"horn condition":             1,
			"main light condition":       2,
		},
		MistakePenalties: map[string]float64{
			"did not complete pre operation check":          2,
			"drove over the speed limit":                    3,
			"engagement error":                              2,
			"did not lower forks after stacking":            2,
			"did not horn while pedestrian in vicinity":     2,
			"did not horn before starting the engine":       1,
			"did not horn before moving forward":            1,
			"did not horn before moving in reverse":         1,
			"did not press horn when turning into aisles":   1,
			"fork blending occured":                         3,
			"did not maintain forkheight above 15 cm":       1,
			"stacking error":                                3,
			"did not fix the pallet postion":                2,
			"did not report breakdown during pre ops check": 2,
		},
		TimePenalty:    5,
		TimeGraceRatio: 0.10,
		MaxScore:       50,
		AlwaysComplete: true,
		PathFlowStep:   "ideal vs actual path",
		MistakeKPIMapping: map[string]string{
			"drove over the speed limit":                    "MAINTAIN SPEED Move Slowly < 6 km/h",
			"engagement error":                              "FORK ENGAGEMENT",
			"did not report breakdown during pre ops check": "Operator will choose start unit or breakdown or report to spv before start unit",
			"did not lower forks after stacking":            "If operator perform reverse & lower the fork",
			"did not horn while pedestrian in vicinity":     "If operator push horn & Stop MHE and 3 meters away",
			"did not horn before starting the engine":       "if operator push horn 1x when start engine",
			"did not horn before moving forward":            "Operator push horn 2x when going forward",
			"did not horn before moving in reverse":         "Operator push horn 3x when going backward",
			"did not press horn when turning into aisles":   "Operator push horn 3x3 when going through intersections",
			"fork blending occured":                         "No Blending",
			"did not maintain forkheight above 15 cm":       "Fork height condition (15 cm from floor)",
			"stacking error":                                "Stacking error",
			"did not fix the pallet postion":                "FIX INCORRECT PALLET",
			"did not complete pre operation check":          "PRE USE CHECK (YES/NO)",
		},
	}

	reachTruck := forklift
	reachTruck.AlwaysComplete = false

	return &ScoringConfig{
		Families: map[string]VehicleScoring{
			"forklift":    forklift,
			"reach truck": reachTruck,
		},
	}
}

// LevelComplete decides level completion from a graded score. Families marked
// AlwaysComplete pass unconditionally; otherwise a configured passing score
// must be strictly exceeded.
func (v VehicleScoring) LevelComplete(score float64, passingScore *float64) bool {
	if v.AlwaysComplete {
		return true
	}
	if passingScore != nil && score <= *passingScore {
		return false
	}
	return true
}
