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

// Package pipeline orchestrates whole reconciliation runs: inventory,
// provenance, footprints, extents, identities, and the status ledger.
package pipeline

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/worldbank/ImageryStorage/catalog"
	"github.com/worldbank/ImageryStorage/extent"
	"github.com/worldbank/ImageryStorage/identity"
	"github.com/worldbank/ImageryStorage/inventory"
	"github.com/worldbank/ImageryStorage/ledger"
	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/provenance"
	"github.com/worldbank/ImageryStorage/raster"
	"github.com/worldbank/ImageryStorage/util"
)

// DBConnectionProvider is a function that can provide a database connection.
type DBConnectionProvider func() (*sql.DB, error)

// ExtentStore is the persisted extent table as the pipeline needs it
type ExtentStore interface {
	GetExtent(archivePath string) (*model.ArchiveExtent, error)
	UpsertExtent(extent model.ArchiveExtent, id model.ArchiveIdentity) error
}

// Engine holds the collaborators for reconciliation runs. Engines are
// reusable; each Run opens and closes its own database connection.
type Engine struct {
	DistributionRoot string
	SourceRoot       string

	Inventory  inventory.Policy
	Provenance provenance.Policy
	// Catalog is the publication catalog client; nil skips service
	// reconciliation and seeds it from the previous snapshot instead
	Catalog   provenance.CatalogClient
	Extractor raster.Extractor
	Identity  identity.Generator
	Ledger    ledger.Ledger
	Metadata  catalog.MetadataWriter

	// DBConnProvider supplies the extents database; nil disables extent
	// persistence (footprints are still computed and reported)
	DBConnProvider DBConnectionProvider

	Workers int
}

// NewEngineFromEnv assembles an engine from the environment. A configured
// admin boundary dataset that cannot be loaded is a fatal configuration
// error: every identity the run produced would be unresolved. Only an
// unset path degrades to identities without countries.
func NewEngineFromEnv(ctx util.LogContext, dbConnProvider DBConnectionProvider) (*Engine, error) {
	outputRoot := util.GetCatalogOutputRoot()

	engine := Engine{
		DistributionRoot: util.GetVendorDistributionRoot(),
		SourceRoot:       util.GetImagerySourceRoot(),
		Inventory:        inventory.DefaultPolicy(),
		Provenance:       provenance.DefaultPolicy(),
		Catalog:          provenance.NewHTTPCatalogClient(),
		Extractor:        raster.NewExtractor(),
		Ledger:           ledger.Ledger{OutputRoot: outputRoot},
		Metadata:         catalog.MetadataWriter{OutputRoot: outputRoot},
		DBConnProvider:   dbConnProvider,
		Workers:          util.GetWorkerCount(),
	}

	if boundariesPath := util.GetAdminBoundariesPath(); boundariesPath != "" {
		boundaries, err := identity.LoadBoundaries(boundariesPath)
		if err != nil {
			return nil, fmt.Errorf("admin boundary dataset is configured but unusable: %v", err)
		}
		engine.Identity = identity.Generator{Boundaries: boundaries}
	}

	return &engine, nil
}

// unitUpdate is one worker's report for one archive: the ledger row (nil
// when the archive was not reconciled) and the unit results it produced
type unitUpdate struct {
	row     *ledger.Row
	results []model.UnitResult
}

// Run executes one full reconciliation pass. Blocking. Abort messages on
// messageChan stop dispatch after in-flight archives finish; status request
// channels received on statusChan get an in-progress report. Both channels
// may be nil.
func (e *Engine) Run(ctx util.LogContext, messageChan <-chan string, statusChan <-chan chan string) string {
	report := model.RunReport{StartTime: time.Now()}

	store, release, err := e.openStore(ctx)
	if err != nil {
		util.LogSimpleErr(ctx, "Could not open the extents database", err)
		return "Run aborted: extents database unavailable: " + err.Error()
	}
	defer release()

	archives, inventoryFailures := inventory.List(ctx, e.DistributionRoot, e.Inventory)
	for _, failure := range inventoryFailures {
		report.Add(failure)
	}
	util.LogInfo(ctx, fmt.Sprintf("Inventory listed %d archives under %s", len(archives), e.DistributionRoot))

	snapshot, err := e.Ledger.ReadSnapshot(ctx)
	if err != nil {
		util.LogSimpleErr(ctx, "Could not read the previous ledger snapshot; starting from no evidence", err)
		snapshot = map[string]ledger.Row{}
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	work := make(chan model.VendorArchive, len(archives))
	updates := make(chan unitUpdate)
	quit := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go e.worker(ctx, &wg, store, snapshot, work, updates, quit)
	}
	for _, archive := range archives {
		work <- archive
	}
	close(work)
	go func() {
		wg.Wait()
		close(updates)
	}()

	var rows []ledger.Row
	canceled := false
CollectLoop:
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				break CollectLoop
			}
			if update.row != nil {
				rows = append(rows, *update.row)
			}
			for _, result := range update.results {
				report.Add(result)
			}
		case msg, ok := <-messageChan:
			if !ok {
				// Channel closed: finish the run, then let the caller exit.
				messageChan = nil
				continue
			}
			if msg == AbortRunMessage && !canceled {
				util.LogInfo(ctx, "Reconciliation run canceled by user.")
				canceled = true
				report.CanceledByUser = true
				close(quit)
			}
		case respChan := <-statusChan:
			if respChan != nil {
				select {
				case respChan <- fmt.Sprintf("%v\nIn progress\n%v",
					time.Now().Format("Mon Jan _2 15:04:05 2006"), report.String()):
				default:
				}
			}
		}
	}

	report.EndTime = time.Now()

	if err = e.Ledger.WriteRun(ctx, rows, report.EndTime); err != nil {
		util.LogSimpleErr(ctx, "Could not write the status ledger", err)
	}

	util.LogInfo(ctx, "Reconciliation run complete: "+report.String())
	util.LogInfo(ctx, fmt.Sprintf("Run took %s", report.EndTime.Sub(report.StartTime)))
	return report.String()
}

// openStore opens the extents database for one run. A nil provider is a
// run without persistence, not an error.
func (e *Engine) openStore(ctx util.LogContext) (ExtentStore, func(), error) {
	if e.DBConnProvider == nil {
		util.LogAlert(ctx, "No extents database configured; extents will not be persisted.")
		return nil, func() {}, nil
	}
	db, err := e.DBConnProvider()
	if err != nil {
		return nil, func() {}, err
	}
	return &catalog.Store{DB: db}, func() { db.Close() }, nil
}

func (e *Engine) worker(ctx util.LogContext, wg *sync.WaitGroup, store ExtentStore,
	snapshot map[string]ledger.Row, work <-chan model.VendorArchive, updates chan<- unitUpdate, quit <-chan struct{}) {
	defer wg.Done()

	for archive := range work {
		select {
		case <-quit:
			updates <- unitUpdate{results: []model.UnitResult{
				model.SkippedResult(archive.ArchivePath, "run", "run canceled"),
			}}
			continue
		default:
		}

		row, results := e.processArchive(ctx, store, archive, snapshot)
		updates <- unitUpdate{row: &row, results: results}
	}
}

// processArchive runs the whole per-archive sequence. Failures are
// archive-local: every path out of here returns a ledger row and explicit
// unit results, never a panic or a batch abort.
func (e *Engine) processArchive(ctx util.LogContext, store ExtentStore,
	archive model.VendorArchive, snapshot map[string]ledger.Row) (ledger.Row, []model.UnitResult) {

	var results []model.UnitResult

	var status model.ProvenanceStatus
	previous, hasPrevious := snapshot[archive.ArchivePath]
	if hasPrevious && previous.SourceExists && previous.ServiceExists {
		// Evidence order: the prior ledger first. Archives already marked
		// fully complete are not re-checked against the filesystem or the
		// publication catalog.
		status = previous.Status()
	} else {
		var miss *model.UnitResult
		status, miss = e.Provenance.Reconcile(ctx, archive, e.SourceRoot, e.Catalog)
		if miss != nil {
			results = append(results, *miss)
		}
		// Without fresh publication evidence, carry the previous snapshot's
		// service fields forward so one catalog outage does not erase them.
		if (e.Catalog == nil || miss != nil) && hasPrevious {
			seedServiceFields(&status, previous.Status())
			if e.Provenance.RepairServiceImpliesSource {
				status.RepairInvariant()
			}
		}
	}
	row := ledger.NewRow(archive, status)

	if !status.SourceExists {
		results = append(results, model.SkippedResult(archive.ArchivePath, "cataloging", "source imagery not yet extracted"))
		return row, results
	}

	sourceFolder := provenance.SourceFolder(e.SourceRoot, archive)
	footprints, tileResults := e.extractFootprints(ctx, archive, sourceFolder)
	results = append(results, tileResults...)

	builder := extent.Builder{Store: store}
	archiveExtent, buildResult := builder.Build(ctx, archive, footprints)
	results = append(results, buildResult)
	if archiveExtent == nil {
		return row, results
	}

	id := e.Identity.Generate(ctx, *archiveExtent)

	if buildResult.Outcome != model.UnitSkipped && store != nil {
		if err := store.UpsertExtent(*archiveExtent, id); err != nil {
			util.LogSimpleErr(ctx, "Could not persist extent for "+archive.ArchivePath, err)
			results = append(results, model.FailedResult(archive.ArchivePath, "persist", err.Error()))
			return row, results
		}
	}

	if !archiveExtent.DatesResolved() {
		results = append(results, model.ExcludedResult(archive.ArchivePath, "metadata",
			"capture dates unresolved"))
		return row, results
	}
	if !id.Resolved() {
		results = append(results, model.ExcludedResult(archive.ArchivePath, "metadata",
			"identity unresolved: "+id.String()))
		return row, results
	}

	record, err := catalog.NewMetadataRecord(archive, *archiveExtent, id, status)
	if err != nil {
		results = append(results, model.FailedResult(archive.ArchivePath, "metadata", err.Error()))
		return row, results
	}
	if _, err = e.Metadata.Write(ctx, id, record); err != nil {
		results = append(results, model.FailedResult(archive.ArchivePath, "metadata", err.Error()))
		return row, results
	}

	results = append(results, model.SucceededResult(archive.ArchivePath, "metadata"))
	return row, results
}

// extractFootprints computes a canonical footprint for every raster tile at
// the archive's processed location. Unreadable tiles are reported and
// dropped; they never abort the archive.
func (e *Engine) extractFootprints(ctx util.LogContext, archive model.VendorArchive, sourceFolder string) ([]model.TileFootprint, []model.UnitResult) {
	cachedDate := ""
	if archive.Vendor == model.VendorGBDX {
		sidecar, err := raster.ReadGBDXSidecar(sourceFolder)
		if err != nil {
			util.LogAlert(ctx, "No usable GBDX sidecar for "+archive.ArchivePath+": "+err.Error())
		} else {
			cachedDate = sidecar.CaptureDate
		}
	}

	var footprints []model.TileFootprint
	var results []model.UnitResult
	for _, tilePath := range listTiles(sourceFolder) {
		footprint, err := e.Extractor.Extract(ctx, tilePath, archive.Vendor, cachedDate)
		if err != nil {
			util.LogSimpleErr(ctx, "Could not read raster tile "+tilePath, err)
			results = append(results, model.FailedResult(tilePath, "footprint", err.Error()))
			continue
		}
		footprints = append(footprints, *footprint)
	}
	return footprints, results
}

func listTiles(sourceFolder string) []string {
	var tiles []string
	filepath.Walk(sourceFolder, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		lower := strings.ToLower(info.Name())
		if strings.HasSuffix(lower, ".tif") || strings.HasSuffix(lower, ".tiff") {
			tiles = append(tiles, p)
		}
		return nil
	})
	return tiles
}

func seedServiceFields(status *model.ProvenanceStatus, previous model.ProvenanceStatus) {
	status.ServiceExists = previous.ServiceExists
	status.ServiceSource = previous.ServiceSource
	status.ServiceRecordID = previous.ServiceRecordID
	status.ServiceName = previous.ServiceName
	status.RGBRecordID = previous.RGBRecordID
}
