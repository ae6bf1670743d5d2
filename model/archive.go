package model

import (
	"path"
	"strings"
)

// Vendor identifies the imagery vendor for an archive. Vendor-specific
// behavior (date conventions, sidecar files) dispatches on this closed set.
type Vendor string

// Recognized vendors
const (
	VendorMaxar   Vendor = "MAXAR"
	VendorSPOT    Vendor = "SPOT"
	VendorGBDX    Vendor = "gbdx_clip"
	VendorUnknown Vendor = "UNKNOWN"
)

// GBDXClipLogName is the marker file a GBDX clip task leaves in its delivery
const GBDXClipLogName = "gbdx_clip_log.txt"

// DetermineVendor infers the vendor from the member file names of a
// delivery. Deliveries without a recognized marker report VendorUnknown.
func DetermineVendor(fileNames []string) Vendor {
	for _, name := range fileNames {
		if path.Base(name) == GBDXClipLogName {
			return VendorGBDX
		}
	}
	for _, name := range fileNames {
		upper := strings.ToUpper(path.Base(name))
		if strings.HasSuffix(upper, "BROWSE.JPG") {
			return VendorMaxar
		}
		if strings.Contains(upper, "PREVIEW") {
			return VendorSPOT
		}
	}
	return VendorUnknown
}

// VendorArchive is one vendor-delivered archive file, tagged with the
// sensor inferred from its parent directory. Immutable once listed.
type VendorArchive struct {
	ArchivePath string
	Sensor      string
	Vendor      Vendor
	// Manifest holds the base names of the archive's member files,
	// obtained without extraction
	Manifest []string
}

// BaseName returns the archive file name without its directory
func (a VendorArchive) BaseName() string {
	return path.Base(strings.ReplaceAll(a.ArchivePath, "\\", "/"))
}

// ProvenanceStatus records how far an archive has progressed through the
// pipeline. Recomputed whole on each reconciliation pass.
type ProvenanceStatus struct {
	SourceExists   bool
	SourceLocation string
	MatchRatio     float64

	ServiceExists   bool
	ServiceSource   string
	ServiceRecordID string
	ServiceName     string
	RGBRecordID     string
}

// RepairInvariant forces the published-implies-extracted invariant: a
// record observed in the publication catalog always has extracted source,
// even if local files were since removed.
func (s *ProvenanceStatus) RepairInvariant() {
	if s.ServiceExists {
		s.SourceExists = true
	}
}
