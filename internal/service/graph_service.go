package service

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/skillsim/apiserver/internal/dto"
	"github.com/skillsim/apiserver/internal/model"
	"github.com/skillsim/apiserver/internal/telemetry"
)

// GraphService turns one attempt's raw telemetry into the chart-ready
// structure consumed by the report dashboards. The chart definitions ride
// inside the payload itself (the "graph" list), so everything here is
// best-effort over untyped JSON: absent routes produce empty series, never
// errors.
type GraphService interface {
	AttemptData(a *model.Attempt, passingScore *float64) (map[string]any, error)
}

type graphService struct {
	scoring *ScoringConfig
}

func NewGraphService(scoring *ScoringConfig) GraphService {
	return &graphService{scoring: scoring}
}

// additionalSeries is a per-point annotation list kept aligned with its
// parent series.
type additionalSeries struct {
	Name           string `json:"name"`
	Representation string `json:"representation"`
	Values         []any  `json:"data"`

	fetchField string
}

func (s *graphService) AttemptData(a *model.Attempt, passingScore *float64) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(a.Data, &payload); err != nil {
		return nil, err
	}

	res := map[string]any{}
	rawGame, ok := telemetry.Lookup(payload, "gameData")
	if !ok {
		return res, nil
	}
	gameData, ok := rawGame.(map[string]any)
	if !ok {
		return res, nil
	}

	if score, hasScore := telemetry.Number(payload["score"]); hasScore && score != 0 && passingScore != nil && *passingScore != 0 {
		res["score"] = map[string]any{
			"score":         score,
			"passing_score": *passingScore,
			"result":        score >= *passingScore,
		}
	}

	moduleName, _ := telemetry.Lookup(payload, "module.name")
	if name, isStr := moduleName.(string); isStr {
		if fam, famOK := s.scoring.Family(name); famOK {
			s.rebuildInspectionScores(payload, gameData, fam)
		}
	}

	s.copyTelemetrySections(res, gameData)

	res["path"] = nil
	if aligned, alignedOK := alignPaths(gameData); alignedOK {
		res["path"] = aligned
	}

	if rawGraphs, hasGraphs := gameData["graph"].([]any); hasGraphs && len(rawGraphs) > 0 {
		res["graphs"] = s.buildGraphs(rawGraphs, gameData)
	}
	return res, nil
}

// telemetry sections the dashboards read verbatim, with the default used
// when the payload lacks them.
var passthroughDefaults = map[string]any{
	"kpis":             []any{},
	"kpitask":          []any{},
	"generalkpis":      map[string]any{},
	"tasks":            nil,
	"mistakes":         []any{},
	"cycleData":        []any{},
	"material":         []any{},
	"cases":            []any{},
	"inspections":      []any{},
	"interactionError": []any{},
	"skippedCases":     []any{},
	"wrongCases":       []any{},
	"maintenance":      nil,
	"subActivities":    nil,
	"tableKpis":        nil,
	"wiredConnections": []any{},
	"objectPlacements": []any{},
	"wrongConnections": []any{},
	"assembly":         nil,
	"disAssembly":      nil,
	"measurement":      nil,
	"boxPickupData":    []any{},
	"boxKeptData":      []any{},
	"hAxisLines":       nil,
	"obstacles":        nil,
	"obstacles1":       nil,
	"vAxisLines":       nil,
	"kpitable":         nil,
	"pathtable":        nil,
}

func (s *graphService) copyTelemetrySections(res, gameData map[string]any) {
	for key, def := range passthroughDefaults {
		if v, ok := gameData[key]; ok {
			res[key] = v
		} else {
			res[key] = def
		}
	}
}

// rebuildInspectionScores recomputes the per-step score column of the first
// inspection's user flow so the dashboard table matches the grading rules:
// free-score steps keep their fixed points, unticked checks score zero,
// steps voided by a committed mistake score zero, and the final step is
// overwritten with the total.
func (s *graphService) rebuildInspectionScores(payload, gameData map[string]any, fam VehicleScoring) {
	inspections, hasInsp := gameData["inspections"].([]any)
	if !hasInsp || len(inspections) == 0 {
		return
	}
	first, isObj := inspections[0].(map[string]any)
	if !isObj {
		return
	}
	actualFlow := stringSlice(first["actualFlow"])
	userFlow, hasFlow := first["UserFlow"].(map[string]any)
	if !hasFlow {
		return
	}
	flowScores, _ := userFlow["UserFlow_Attempt1"].([]any)
	if len(actualFlow) == 0 || len(flowScores) == 0 {
		return
	}

	checked := map[string]bool{}
	tableKpis, _ := gameData["tableKpis"].([]any)
	for _, e := range tableKpis {
		kpi, kpiOK := e.(map[string]any)
		if !kpiOK {
			continue
		}
		cond, condOK := kpi["preCheckCondition"].(string)
		ticked, tickOK := kpi["hasChecked"].(bool)
		if condOK && tickOK && ticked {
			checked[strings.ToLower(cond)] = true
		}
	}

	freeKPIs := map[string]float64{}
	for name, pts := range fam.FreeScoreKPIs {
		freeKPIs[strings.ToLower(name)] = pts
	}

	n := len(actualFlow)
	if len(flowScores) < n {
		n = len(flowScores)
	}
	userScores := make([]any, n)
	for i := 0; i < n; i++ {
		step := strings.ToLower(actualFlow[i])
		switch {
		case freeKPIs[step] != 0:
			userScores[i] = freeKPIs[step]
		case checked[step]:
			userScores[i] = flowScores[i]
		default:
			userScores[i] = float64(0)
		}
	}

	committed := map[string]bool{}
	mistakes, _ := gameData["mistakes"].([]any)
	for _, e := range mistakes {
		if m, mOK := e.(map[string]any); mOK {
			if name, nameOK := m["name"].(string); nameOK {
				committed[strings.ToLower(name)] = true
			}
		}
	}
	// Steps whose mistake was avoided keep the client-reported score.
	for mistake, flowStep := range fam.MistakeKPIMapping {
		if committed[strings.ToLower(mistake)] {
			continue
		}
		for i := 0; i < n; i++ {
			if strings.EqualFold(actualFlow[i], flowStep) {
				userScores[i] = flowScores[i]
			}
		}
	}

	// With no check table at all the full fixed points apply per step.
	if len(tableKpis) == 0 {
		for i := 0; i < n; i++ {
			if pts, found := fam.TableKPIs[strings.ToLower(actualFlow[i])]; found {
				userScores[i] = pts
			}
		}
	}

	if fam.PathTimeExceeded(payload) {
		for i := 0; i < n; i++ {
			if actualFlow[i] == fam.PathFlowStep {
				userScores[i] = fam.TimePenalty
			}
		}
	}

	total := 0.0
	for _, v := range userScores {
		if f, isNum := telemetry.Number(v); isNum {
			total += f
		}
	}
	userScores[n-1] = total
	userFlow["user_score"] = userScores
}

// alignPaths groups the ideal route and the driven route by path name for
// side-by-side rendering. Driven samples are thinned to one per two-second
// bucket; the first sample of a route always stays.
func alignPaths(gameData map[string]any) (map[string]any, bool) {
	pathData, hasPath := gameData["path"].(map[string]any)
	if !hasPath {
		return nil, false
	}
	idealRaw, hasIdeal := pathData["idealPath"].([]any)
	actualRaw, hasActual := pathData["vehicleData"].([]any)
	if !hasIdeal || !hasActual {
		return nil, false
	}

	ideal := map[string][]any{}
	for _, e := range idealRaw {
		d, isObj := e.(map[string]any)
		if !isObj {
			continue
		}
		ideal[pathKey(d)] = append(ideal[pathKey(d)], d)
	}

	actual := map[string][]any{}
	buckets := map[string]map[int]bool{}
	for _, e := range actualRaw {
		d, isObj := e.(map[string]any)
		if !isObj {
			continue
		}
		k := pathKey(d)
		t, _ := telemetry.Number(d["time"])
		bucket := int(t/2+0.5) * 2
		if _, seen := actual[k]; !seen {
			actual[k] = []any{d}
			buckets[k] = map[int]bool{bucket: true}
			continue
		}
		if !buckets[k][bucket] {
			actual[k] = append(actual[k], d)
			buckets[k][bucket] = true
		}
	}

	aligned := map[string]any{
		"ideal_path":  ideal,
		"actual_path": actual,
	}
	if idealTime, hasTime := pathData["idealTime"]; hasTime {
		aligned["ideal_time"] = idealTime
	}
	return aligned, true
}

func pathKey(d map[string]any) string {
	if name, isStr := d["path"].(string); isStr && name != "" {
		return strings.ToLower(name)
	}
	return "unknown"
}

func (s *graphService) buildGraphs(rawGraphs []any, gameData map[string]any) []map[string]any {
	all := []map[string]any{}
	for _, rg := range rawGraphs {
		graph, isObj := rg.(map[string]any)
		if !isObj {
			continue
		}
		graphType, _ := graph["type"].(string)
		switch graphType {
		case "doughnut", "pie", "kpis", "kpitask1":
			all = append(all, s.buildCountedGraph(graph, gameData))
		case "bar", "stacked_bar":
			all = append(all, s.buildBarGraph(graph, gameData))
		case "line":
			obj := s.buildLineGraph(graph, gameData)
			all = append(all, obj)
			attachHLines(obj, graph, gameData)
		default:
			log.Debug().Str("type", graphType).Msg("skipping unsupported graph type")
		}
	}
	return all
}

// buildCountedGraph renders pie-style charts. The chart's data field is
// either an inline JSON object (labels to values, single quotes tolerated)
// or a route whose values are tallied per distinct value.
func (s *graphService) buildCountedGraph(graph, gameData map[string]any) map[string]any {
	name, _ := graph["name"].(string)
	graphType, _ := graph["type"].(string)
	obj := map[string]any{"name": name, "type": graphType}

	route, hasData := graph["data"].(string)
	if !hasData {
		return obj
	}
	if labels, values, err := parseInlineSeries(route); err == nil {
		obj["labels"] = labels
		obj["data"] = values
		return obj
	}

	series, extra := s.seriesData(route, gameData, graph["additionalData"])
	labels, counts := tally(series)
	obj["data"] = counts
	obj["labels"] = labels
	obj["additional_data"] = extra

	if labelRoute, hasLabel := graph["label"].(string); hasLabel {
		obj["data"] = series
		labelSeries, _ := s.seriesData(labelRoute, gameData, graph["additionalData"])
		obj["labels"] = labelSeries
	}
	return obj
}

func (s *graphService) buildBarGraph(graph, gameData map[string]any) map[string]any {
	name, _ := graph["name"].(string)
	graphType, _ := graph["type"].(string)
	obj := map[string]any{"name": name, "type": graphType}

	x, hasX := graph["xAxis"].(string)
	y, hasY := graph["yAxis"].(string)
	if hasX && hasY {
		obj["xlabel"] = x
		obj["ylabel"] = y
	}
	s.extractDatasets(obj, graph, gameData)
	prefix, _ := graph["labels"].(string)
	obj["prefix"] = prefix
	if maxValue, hasMax := graph["maxValue"]; hasMax && truthy(maxValue) {
		obj["maxValue"] = maxValue
	}
	return obj
}

func (s *graphService) buildLineGraph(graph, gameData map[string]any) map[string]any {
	name, _ := graph["name"].(string)
	obj := map[string]any{"name": name, "type": "line"}

	xRaw, hasX := graph["xAxis"]
	yRaw, hasY := graph["yAxis"]
	if hasX && hasY && xRaw != nil && yRaw != nil {
		if xs, isList := xRaw.([]any); isList {
			// Multi-axis definitions render the last pair.
			ys, _ := yRaw.([]any)
			for i := range xs {
				if i >= len(ys) {
					break
				}
				xi, _ := xs[i].(string)
				yi, _ := ys[i].(string)
				obj = s.coordinateGraph(gameData, xi, yi, graph)
			}
			return obj
		}
		x, _ := xRaw.(string)
		y, _ := yRaw.(string)
		return s.coordinateGraph(gameData, x, y, graph)
	}

	s.extractDatasets(obj, graph, gameData)
	obj["type"] = "multiple_line"
	if labelRoute, hasLabel := graph["label"].(string); hasLabel && labelRoute != "" {
		parts := strings.Split(labelRoute, ".")
		obj["xlabel"] = parts[len(parts)-1]
	}
	return obj
}

// coordinateGraph walks parallel x and y collections into x/y pairs,
// downsampled so consecutive points sit at least two time units apart. The
// first point of a cluster survives.
func (s *graphService) coordinateGraph(gameData map[string]any, x, y string, graph map[string]any) map[string]any {
	xRecords, xLeaf, xOK := telemetry.Collection(gameData, x)
	yRecords, yLeaf, yOK := telemetry.Collection(gameData, y)

	extra := additionalFields(graph["additionalData"])
	coords := []dto.Coordinate{}
	if xOK && yOK {
		var lastTime float64
		havePoint := false
		for i := range xRecords {
			if i >= len(yRecords) {
				break
			}
			cx, cxOK := telemetry.Number(xRecords[i][xLeaf])
			cy, cyOK := telemetry.Number(yRecords[i][yLeaf])
			if !cxOK || !cyOK {
				continue
			}
			cx = telemetry.Round2(cx)
			if havePoint && cx-lastTime < 2 {
				continue
			}
			coords = append(coords, dto.Coordinate{X: cx, Y: telemetry.Round2(cy)})
			lastTime = cx
			havePoint = true
			for fi := range extra {
				extra[fi].Values = append(extra[fi].Values, roundIfNumeric(xRecords[i][extra[fi].fetchField]))
			}
		}
	}

	name, _ := graph["name"].(string)
	graphType, _ := graph["type"].(string)
	obj := map[string]any{
		"name":            name,
		"type":            graphType,
		"xlabel":          xLeaf,
		"ylabel":          yLeaf,
		"data":            coords,
		"additional_data": extra,
	}
	if xl, hasXL := graph["xlabel"].(string); hasXL {
		obj["xlabel"] = xl
	}
	if yl, hasYL := graph["ylabel"].(string); hasYL {
		obj["ylabel"] = yl
	}
	return obj
}

// extractDatasets resolves a chart's dataset routes into labelled series.
// Labels come from the dataset's label route when it yields values, else
// indices are synthesized.
func (s *graphService) extractDatasets(obj, graph map[string]any, gameData map[string]any) {
	datasets := []map[string]any{}
	labels := []any{}
	var extra []additionalSeries

	rawSets, _ := graph["datasets"].([]any)
	for _, re := range rawSets {
		def, isObj := re.(map[string]any)
		if !isObj {
			continue
		}
		label, _ := def["label"].(string)
		dataRoute, _ := def["data"].(string)
		series, seriesExtra := s.seriesData(dataRoute, gameData, graph["additionalData"])
		extra = seriesExtra

		labels = []any{}
		if label != "" {
			labelSeries, _ := s.seriesData(label, gameData, nil)
			if len(labelSeries) > 0 {
				seen := map[string]bool{}
				for _, l := range labelSeries {
					key := stringify(l)
					if !seen[key] {
						seen[key] = true
						labels = append(labels, l)
					}
				}
			}
		}
		if len(labels) == 0 {
			for i := range series {
				labels = append(labels, strconv.Itoa(i))
			}
		}
		datasets = append(datasets, map[string]any{"name": label, "data": series})
	}

	obj["labels"] = labels
	obj["data"] = datasets
	obj["additional_data"] = extra
}

// seriesData resolves a collection route into a flat series. Falsy leaf
// values become 0 so the chart keeps its point count; a route without a
// collection parent yields an empty series.
func (s *graphService) seriesData(route string, gameData map[string]any, additionalData any) ([]any, []additionalSeries) {
	extra := additionalFields(additionalData)
	records, leaf, ok := telemetry.Collection(gameData, route)
	if !ok {
		return []any{}, extra
	}
	series := make([]any, 0, len(records))
	for _, rec := range records {
		v := rec[leaf]
		if !truthy(v) {
			series = append(series, float64(0))
			continue
		}
		for fi := range extra {
			extra[fi].Values = append(extra[fi].Values, rec[extra[fi].fetchField])
		}
		series = append(series, v)
	}
	return series, extra
}

func additionalFields(additionalData any) []additionalSeries {
	defs, isArr := additionalData.([]any)
	if !isArr {
		return nil
	}
	fields := make([]additionalSeries, 0, len(defs))
	for _, rd := range defs {
		def, isObj := rd.(map[string]any)
		if !isObj {
			continue
		}
		name, _ := def["name"].(string)
		route, _ := def["data"].(string)
		repr, _ := def["representation"].(string)
		parts := strings.Split(route, ".")
		fields = append(fields, additionalSeries{
			Name:           name,
			Representation: repr,
			Values:         []any{},
			fetchField:     parts[len(parts)-1],
		})
	}
	return fields
}

// parseInlineSeries decodes a literal JSON object embedded in a chart
// definition, preserving key order. Single-quoted pseudo-JSON from older
// clients is accepted.
func parseInlineSeries(raw string) ([]string, []any, error) {
	normalized := strings.ReplaceAll(raw, "'", `"`)
	dec := json.NewDecoder(strings.NewReader(normalized))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, isDelim := tok.(json.Delim); !isDelim || delim != '{' {
		return nil, nil, json.Unmarshal([]byte(normalized), &struct{}{})
	}

	var labels []string
	var values []any
	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return nil, nil, keyErr
		}
		key, _ := keyTok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		labels = append(labels, key)
		values = append(values, v)
	}
	return labels, values, nil
}

// tally counts occurrences per distinct value, keeping first-seen order.
func tally(series []any) ([]any, []int) {
	var labels []any
	var counts []int
	index := map[string]int{}
	for _, v := range series {
		key := stringify(v)
		if pos, seen := index[key]; seen {
			counts[pos]++
			continue
		}
		index[key] = len(labels)
		labels = append(labels, v)
		counts = append(counts, 1)
	}
	return labels, counts
}

func attachHLines(obj, graph map[string]any, gameData map[string]any) {
	route, hasLines := graph["hLines"].(string)
	if !hasLines || route == "" {
		return
	}
	if v, found := telemetry.Lookup(gameData, route); found {
		obj["hAxisLines"] = v
	}
}

func stringSlice(v any) []string {
	arr, isArr := v.([]any)
	if !isArr {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, isStr := e.(string); isStr {
			out = append(out, s)
		}
	}
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

func roundIfNumeric(v any) any {
	if f, isNum := telemetry.Number(v); isNum {
		return telemetry.Round2(f)
	}
	return v
}

func stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

