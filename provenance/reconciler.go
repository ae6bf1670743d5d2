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

// Package provenance decides, from partial and noisy file-system evidence,
// how far each archive has progressed through the processing pipeline.
package provenance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// DefaultSourceMatchThreshold is the manifest match ratio above which an
// archive counts as extracted. Archives routinely contain auxiliary files
// (readmes, thumbnails) that are legitimately dropped during tiling, so
// exact-set equality is the wrong test; a majority match tolerates lossy
// partial re-processing while still detecting unprocessed archives.
const DefaultSourceMatchThreshold = 0.50

// Policy holds the reconciliation heuristics. Both knobs are heuristics
// inherited from pipeline operations; they are policy, not constants.
type Policy struct {
	// SourceMatchThreshold: sourceExists iff matchRatio strictly exceeds it
	SourceMatchThreshold float64
	// RepairServiceImpliesSource: a published record implies extraction
	// happened, even if local files were since removed
	RepairServiceImpliesSource bool
}

// DefaultPolicy returns the standard reconciliation policy, with the
// threshold overridable from the environment
func DefaultPolicy() Policy {
	return Policy{
		SourceMatchThreshold:       util.GetSourceMatchThreshold(DefaultSourceMatchThreshold),
		RepairServiceImpliesSource: true,
	}
}

// SourceFolder is the on-disk "processed" location expected for an archive:
// <sourceRoot>/<sensor>/<archive base name without extension>
func SourceFolder(sourceRoot string, archive model.VendorArchive) string {
	base := archive.BaseName()
	for _, ext := range []string{".zip", ".tar.gz", ".tgz"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	return filepath.Join(sourceRoot, archive.Sensor, base)
}

// ScanSourceFiles collects the base names of every file under the candidate
// processed location. A missing folder is simply an empty set.
func ScanSourceFiles(sourceFolder string) map[string]bool {
	present := map[string]bool{}
	filepath.Walk(sourceFolder, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			present[filepath.Base(p)] = true
		}
		return nil
	})
	return present
}

// MatchRatio is |manifest ∩ present| / |manifest|. An empty manifest yields
// 0: no evidence of completion, not vacuously complete.
func MatchRatio(manifest []string, present map[string]bool) float64 {
	if len(manifest) == 0 {
		return 0
	}
	matched := 0
	for _, name := range manifest {
		if present[name] {
			matched++
		}
	}
	return float64(matched) / float64(len(manifest))
}

// ReconcileSource computes the extraction half of an archive's provenance
// status from its manifest and the files present at the processed location
func (p Policy) ReconcileSource(archive model.VendorArchive, sourceFolder string) model.ProvenanceStatus {
	present := ScanSourceFiles(sourceFolder)
	ratio := MatchRatio(archive.Manifest, present)
	return model.ProvenanceStatus{
		SourceExists:   ratio > p.SourceMatchThreshold,
		SourceLocation: sourceFolder,
		MatchRatio:     ratio,
	}
}

// ReconcileService computes the publication half of the status from the
// records the publication catalog reports for this sensor. A matched record
// repairs the published-implies-extracted invariant when the policy says so.
func (p Policy) ReconcileService(status *model.ProvenanceStatus, archive model.VendorArchive, records []CatalogRecord) {
	manifestSet := make(map[string]bool, len(archive.Manifest))
	for _, name := range archive.Manifest {
		manifestSet[name] = true
	}

	for _, record := range records {
		base := filepath.Base(strings.ReplaceAll(record.Path, "\\", "/"))
		if !manifestSet[base] {
			continue
		}
		if record.ServiceName == DerivedRGBServiceName {
			status.RGBRecordID = record.RecordID
			continue
		}
		status.ServiceExists = true
		status.ServiceRecordID = record.RecordID
		status.ServiceName = record.ServiceName
		status.ServiceSource = record.Source
	}

	if p.RepairServiceImpliesSource {
		status.RepairInvariant()
	}
}

// Reconcile runs both passes for one archive. Catalog unavailability
// degrades to "assume not published" and is surfaced as a miss result so
// the run report stays honest about the missing evidence.
func (p Policy) Reconcile(ctx util.LogContext, archive model.VendorArchive, sourceRoot string, client CatalogClient) (model.ProvenanceStatus, *model.UnitResult) {
	status := p.ReconcileSource(archive, SourceFolder(sourceRoot, archive))

	if client == nil {
		return status, nil
	}

	records, err := client.PublishedRecords(ctx, archive.Sensor)
	if err != nil {
		util.LogSimpleErr(ctx, fmt.Sprintf("Publication catalog query failed for sensor %s; assuming archive is unpublished", archive.Sensor), err)
		miss := model.SkippedResult(archive.ArchivePath, "service-reconciliation", "publication catalog unavailable: "+err.Error())
		return status, &miss
	}

	p.ReconcileService(&status, archive, records)
	return status, nil
}
