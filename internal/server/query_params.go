package server

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/milkledger/internal/clock"
)

func parseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := clock.ParseDate(trimmed, loc)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalFloat(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, errNotFinite
	}
	return parsed, nil
}

var errNotFinite = errors.New("number is not finite")
