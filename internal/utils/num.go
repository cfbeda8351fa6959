package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	rxNumber    = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	rxThousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
)

var spaceStrip = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\t", "")

// ParseFloat parses loosely formatted numbers such as "4.25", "4,5",
// "1,234", "12 345" or "1e3". Anything else, "4.5/5" or "3 stars"
// included, reports false.
func ParseFloat(s string) (float64, bool) {
	s = spaceStrip.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if rxThousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.Replace(s, ",", ".", 1)
	}
	if !rxNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
