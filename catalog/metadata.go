// Copyright 2019, The World Bank Group.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// DefaultClassification is applied to every metadata record; holdings in
// this catalog are not publicly distributable by default
const DefaultClassification = "Official Use Only"

// MetadataRecord is the write-once descriptive record published for each
// fully cataloged archive
type MetadataRecord struct {
	Title                  string `json:"title"`
	CountryISO3            string `json:"countryISO3"`
	ArchiveLocation        string `json:"archiveLocation"`
	ArchiveSizeBytes       int64  `json:"archiveSizeBytes"`
	ResolutionRange        string `json:"resolutionRange"`
	BandRange              string `json:"bandRange"`
	Vendor                 string `json:"vendor"`
	CaptureDateRange       string `json:"captureDateRange"`
	SecurityClassification string `json:"securityClassification"`
	FootprintWKT           string `json:"footprintWKT"`
	OriginalLocation       string `json:"originalLocation"`
}

// NewMetadataRecord assembles a record from a cataloged archive's extent,
// identity and reconciled status. Archive size is best-effort: an archive
// that cannot be stat'ed records zero rather than failing the record.
func NewMetadataRecord(archive model.VendorArchive, extent model.ArchiveExtent,
	id model.ArchiveIdentity, status model.ProvenanceStatus) (MetadataRecord, error) {

	wkt, err := MarshalWKT(extent.Geometry)
	if err != nil {
		return MetadataRecord{}, err
	}

	var sizeBytes int64
	if info, statErr := os.Stat(archive.ArchivePath); statErr == nil {
		sizeBytes = info.Size()
	}

	return MetadataRecord{
		Title:                  fmt.Sprintf("Satellite imagery for %s", id.ISO3),
		CountryISO3:            id.ISO3,
		ArchiveLocation:        archive.ArchivePath,
		ArchiveSizeBytes:       sizeBytes,
		ResolutionRange:        id.ResolutionRange,
		BandRange:              id.BandRange,
		Vendor:                 string(archive.Vendor),
		CaptureDateRange:       id.DateRange,
		SecurityClassification: DefaultClassification,
		FootprintWKT:           wkt,
		OriginalLocation:       status.SourceLocation,
	}, nil
}

// MetadataWriter publishes records under one output root, named by identity
type MetadataWriter struct {
	OutputRoot string
}

// RecordPath returns the catalog file an identity publishes to
func (w MetadataWriter) RecordPath(id model.ArchiveIdentity) string {
	return filepath.Join(w.OutputRoot, id.String()+".json")
}

// Write publishes a record once. An existing record is never rewritten:
// identities are deterministic, so a present file already holds the same
// content and earlier manual corrections must survive re-runs.
func (w MetadataWriter) Write(ctx util.LogContext, id model.ArchiveIdentity, record MetadataRecord) (bool, error) {
	path := w.RecordPath(id)
	if _, err := os.Stat(path); err == nil {
		util.LogInfo(ctx, "Metadata record already published: "+path)
		return false, nil
	}

	if err := os.MkdirAll(w.OutputRoot, 0755); err != nil {
		return false, fmt.Errorf("could not create catalog root %s: %v", w.OutputRoot, err)
	}

	contents, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return false, err
	}
	if err = os.WriteFile(path, contents, 0644); err != nil {
		return false, fmt.Errorf("could not publish metadata record %s: %v", path, err)
	}
	util.LogInfo(ctx, "Published metadata record "+path)
	return true, nil
}
