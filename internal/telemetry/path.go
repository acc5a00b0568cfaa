// Package telemetry navigates the free-form JSON payloads recorded by the
// simulation clients. Payload shapes differ per module and per client build,
// so every lookup reports presence explicitly instead of guessing defaults.
package telemetry

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Payload is a decoded attempt data blob.
type Payload = map[string]any

// Lookup walks a dot-separated route through nested JSON objects. It returns
// the value at the route and whether every segment was present. A missing or
// non-object intermediate yields ok=false, never a panic.
func Lookup(data map[string]any, route string) (any, bool) {
	if route == "" {
		return nil, false
	}
	var cur any = data
	for _, seg := range strings.Split(route, ".") {
		obj, isObj := cur.(map[string]any)
		if !isObj {
			return nil, false
		}
		v, present := obj[seg]
		if !present {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Collection resolves a route whose final segment names a field inside the
// elements of an array one level up: "vehicleData.xCoordinate" means the
// array at "vehicleData" with leaf key "xCoordinate". It returns the array
// elements that are objects plus the leaf key. ok is false when the parent
// route is absent or not an array.
func Collection(data map[string]any, route string) ([]map[string]any, string, bool) {
	idx := strings.LastIndex(route, ".")
	if idx < 0 {
		return nil, "", false
	}
	parent, leaf := route[:idx], route[idx+1:]
	v, found := Lookup(data, parent)
	if !found {
		return nil, "", false
	}
	arr, isArr := v.([]any)
	if !isArr {
		return nil, "", false
	}
	items := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if obj, isObj := e.(map[string]any); isObj {
			items = append(items, obj)
		}
	}
	return items, leaf, true
}

// Number coerces a JSON scalar to float64. Some client builds send numeric
// fields string-typed, so strings are parsed too; anything unparseable
// reports ok=false.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Round2 rounds to two decimal places, matching what the dashboards display.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
