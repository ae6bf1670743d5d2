package model

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Vendors do not agree on how capture dates are communicated: Maxar encodes
// them in tile file names, GBDX clip deliveries carry an XML sidecar with a
// TLCTIME timestamp, others provide nothing machine-readable at all. The
// parsing here is deliberately lenient; callers fall back to SentinelDate.

// CaptureDateLayout is the canonical YYYYMMDD form used in identities,
// ledgers and metadata records
const CaptureDateLayout = "20060102"

// maxarFilenameLayout matches the leading date of Maxar tile names, e.g.
// "17JAN08..." after prefixing the century
const maxarFilenameLayout = "2006Jan02"

// gbdxTimestampLayout matches the date portion of a GBDX TLCTIME value
const gbdxTimestampLayout = "2006-01-02"

// vendorDateParser extracts a capture date from a tile file name
type vendorDateParser func(fileName string) (string, error)

// vendorDateParsers is the closed dispatch table for filename date
// conventions. Vendors absent here resolve to the sentinel-date policy.
var vendorDateParsers = map[Vendor]vendorDateParser{
	VendorMaxar: ParseMaxarFilenameDate,
}

// CaptureDateFromFilename resolves a capture date using the vendor's
// filename convention, or an error when the vendor has none or the name
// does not conform
func CaptureDateFromFilename(vendor Vendor, fileName string) (string, error) {
	parser, ok := vendorDateParsers[vendor]
	if !ok {
		return "", fmt.Errorf("no filename date convention for vendor %s", vendor)
	}
	return parser(fileName)
}

// ParseMaxarFilenameDate parses the Maxar convention: the first seven
// characters of the base name are a YYMonDD date, e.g. "17JAN08"
func ParseMaxarFilenameDate(fileName string) (string, error) {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if len(base) < 7 {
		return "", fmt.Errorf("file name too short for a Maxar date: %q", base)
	}
	raw := "20" + normalizeMonthCase(base[:7])
	parsed, err := time.Parse(maxarFilenameLayout, raw)
	if err != nil {
		return "", fmt.Errorf("could not parse Maxar date from %q: %v", base, err)
	}
	return parsed.Format(CaptureDateLayout), nil
}

// ParseGBDXTimestamp parses the date portion of a GBDX TLCTIME value,
// e.g. "2017-04-11T05:36:29.349932Z"
func ParseGBDXTimestamp(raw string) (string, error) {
	if len(raw) < len(gbdxTimestampLayout) {
		return "", fmt.Errorf("timestamp too short: %q", raw)
	}
	parsed, err := time.Parse(gbdxTimestampLayout, raw[:len(gbdxTimestampLayout)])
	if err != nil {
		return "", fmt.Errorf("could not parse GBDX timestamp %q: %v", raw, err)
	}
	return parsed.Format(CaptureDateLayout), nil
}

// normalizeMonthCase rewrites "17JAN08" as "17Jan08" so time.Parse accepts it
func normalizeMonthCase(s string) string {
	if len(s) < 7 {
		return s
	}
	month := s[2:5]
	return s[:2] + strings.ToUpper(month[:1]) + strings.ToLower(month[1:]) + s[5:]
}
