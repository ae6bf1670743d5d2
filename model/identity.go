package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ArchiveIdentity is the deterministic identity of a cataloged archive:
// country ISO3 code(s), centroid geohash, band range, resolution range and
// capture-date range. Its String form is the catalog filename stem.
type ArchiveIdentity struct {
	ISO3            string // ";"-joined when the extent spans countries
	CountryNames    string
	Geohash         string
	BandRange       string
	ResolutionRange string
	DateRange       string
}

// String assembles the identity stem. Pure function of the fields, so
// identical inputs always catalog under the same name.
func (id ArchiveIdentity) String() string {
	return fmt.Sprintf("%s_%s_%s_%s_%s",
		id.ISO3, id.Geohash, id.BandRange, id.ResolutionRange, id.DateRange)
}

// Resolved reports whether the identity is free of sentinel fields and
// thus eligible for final cataloging
func (id ArchiveIdentity) Resolved() bool {
	if id.Geohash == SentinelGeohash || id.Geohash == "" {
		return false
	}
	if strings.Contains(id.DateRange, SentinelDate) || id.DateRange == "" {
		return false
	}
	return id.ISO3 != ""
}

// CollapseRange renders a min/max pair, collapsed to a single value when
// the two are equal
func CollapseRange(min, max string) string {
	if min == max {
		return min
	}
	return min + "," + max
}

// CollapseIntRange renders an integer min/max pair
func CollapseIntRange(min, max int) string {
	return CollapseRange(strconv.Itoa(min), strconv.Itoa(max))
}

// CollapseFloatRange renders a float min/max pair. Values are rounded to
// three decimals first so recomputation yields identical identity strings.
func CollapseFloatRange(min, max float64) string {
	return CollapseRange(formatResolution(min), formatResolution(max))
}

func formatResolution(res float64) string {
	return strconv.FormatFloat(roundTo3(res), 'f', -1, 64)
}

func roundTo3(v float64) float64 {
	const scale = 1000
	if v < 0 {
		return float64(int64(v*scale-0.5)) / scale
	}
	return float64(int64(v*scale+0.5)) / scale
}
