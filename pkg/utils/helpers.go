package utils

import (
	"strconv"
	"strings"

	"go-sync-ingest/internal/model"
)

// ParseValue turns a raw cell string into a loose value: numbers become
// numeric values, everything else stays a string.
func ParseValue(s string) model.Value {
	s = strings.TrimSpace(s)

	if i, err := strconv.Atoi(s); err == nil {
		return model.Number(float64(i))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return model.Number(f)
	}
	return model.String(s)
}
