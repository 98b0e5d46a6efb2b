package usecase

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingIntRegex matches the integer prefix of a loosely formatted number ("6 days" -> 6)
var leadingIntRegex = regexp.MustCompile(`^\s*([+-]?\d+)`)

// coerceNumber converts an untrusted JSON value to a float64. Missing values
// and anything that does not read as a number yield NaN. A blank string reads as 0.
func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// parseLooseInt reads the integer prefix of an untrusted value, truncating
// fractions ("6.7" -> 6). Values beyond int32 saturate. ok is false when no
// integer prefix exists.
func parseLooseInt(v any) (int, bool) {
	var s string
	switch n := v.(type) {
	case nil:
		return 0, false
	case string:
		s = n
	case json.Number:
		s = n.String()
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		s = strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}

	m := leadingIntRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	i, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return saturateInt(m[1]), true
		}
		return 0, false
	}
	if i > math.MaxInt32 || i < math.MinInt32 {
		return saturateInt(m[1]), true
	}
	return int(i), true
}

// saturateInt clamps an out-of-range integer literal to the int32 bounds
func saturateInt(digits string) int {
	if strings.HasPrefix(digits, "-") {
		return math.MinInt32
	}
	return math.MaxInt32
}

// looseString returns v trimmed when it is a non-blank string
func looseString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// roundHalfUp rounds half-way values towards positive infinity
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
