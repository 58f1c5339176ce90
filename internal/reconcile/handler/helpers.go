package handler

import (
	"math"
	"runtime"
	"strconv"
	"strings"
)

// workerCount reads the workers form field, clamped to 1..GOMAXPROCS.
func workerCount(s string) int {
	return max(1, min(atoi(s, 1), runtime.GOMAXPROCS(0)))
}

func atoi(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
