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

// Package ledger accumulates per-archive status rows into dated append-only
// logs and a CURRENT snapshot that is fully overwritten each run. Consumers
// needing history read the dated logs; the snapshot is a point-in-time view.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// CurrentSnapshotName is the snapshot file overwritten each run
const CurrentSnapshotName = "CURRENT_imagery_log.csv"

const datedLogLayout = "imagery_log_2006_01_02.csv"

var statusColumns = []string{
	"Sensor", "ZipFile", "SourceExists", "SourceLocation",
	"ServiceExists", "ServiceSource", "ServiceRecordId", "SourceServiceName",
	"RgbRecordId",
}

// Row is one archive's status entry
type Row struct {
	Sensor          string
	ArchivePath     string
	SourceExists    bool
	SourceLocation  string
	ServiceExists   bool
	ServiceSource   string
	ServiceRecordID string
	ServiceName     string
	RGBRecordID     string
}

// NewRow builds a status row from an archive and its reconciled status
func NewRow(archive model.VendorArchive, status model.ProvenanceStatus) Row {
	return Row{
		Sensor:          archive.Sensor,
		ArchivePath:     archive.ArchivePath,
		SourceExists:    status.SourceExists,
		SourceLocation:  status.SourceLocation,
		ServiceExists:   status.ServiceExists,
		ServiceSource:   status.ServiceSource,
		ServiceRecordID: status.ServiceRecordID,
		ServiceName:     status.ServiceName,
		RGBRecordID:     status.RGBRecordID,
	}
}

// Status converts a row back into a provenance status, used when seeding a
// run from the previous snapshot
func (r Row) Status() model.ProvenanceStatus {
	return model.ProvenanceStatus{
		SourceExists:    r.SourceExists,
		SourceLocation:  r.SourceLocation,
		ServiceExists:   r.ServiceExists,
		ServiceSource:   r.ServiceSource,
		ServiceRecordID: r.ServiceRecordID,
		ServiceName:     r.ServiceName,
		RGBRecordID:     r.RGBRecordID,
	}
}

func (r Row) record() []string {
	return []string{
		r.Sensor, r.ArchivePath,
		strconv.FormatBool(r.SourceExists), r.SourceLocation,
		strconv.FormatBool(r.ServiceExists), r.ServiceSource,
		r.ServiceRecordID, r.ServiceName, r.RGBRecordID,
	}
}

// Ledger writes status rows under one output root
type Ledger struct {
	OutputRoot string
}

// DatedLogPath returns the append-only log file for the given day
func (l Ledger) DatedLogPath(day time.Time) string {
	return filepath.Join(l.OutputRoot, day.Format(datedLogLayout))
}

// CurrentSnapshotPath returns the overwritten snapshot file
func (l Ledger) CurrentSnapshotPath() string {
	return filepath.Join(l.OutputRoot, CurrentSnapshotName)
}

// WriteRun appends the run's rows to the dated log and overwrites the
// CURRENT snapshot with them
func (l Ledger) WriteRun(ctx util.LogContext, rows []Row, day time.Time) error {
	if err := os.MkdirAll(l.OutputRoot, 0755); err != nil {
		return fmt.Errorf("could not create ledger root %s: %v", l.OutputRoot, err)
	}

	if err := l.appendDated(rows, day); err != nil {
		return err
	}

	if err := l.overwriteSnapshot(rows); err != nil {
		return err
	}

	util.LogInfo(ctx, fmt.Sprintf("Ledger updated: %d rows appended to %s", len(rows), l.DatedLogPath(day)))
	return nil
}

func (l Ledger) appendDated(rows []Row, day time.Time) error {
	path := l.DatedLogPath(day)
	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open dated log %s: %v", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if needsHeader {
		if err = writer.Write(statusColumns); err != nil {
			return err
		}
	}
	for _, row := range rows {
		if err = writer.Write(row.record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (l Ledger) overwriteSnapshot(rows []Row) error {
	path := l.CurrentSnapshotPath()
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not overwrite snapshot %s: %v", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err = writer.Write(statusColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err = writer.Write(row.record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadSnapshot loads the previous CURRENT snapshot, keyed by archive path.
// A missing snapshot is an empty map: first runs start from no evidence.
func (l Ledger) ReadSnapshot(ctx util.LogContext) (map[string]Row, error) {
	file, err := os.Open(l.CurrentSnapshotPath())
	if os.IsNotExist(err) {
		return map[string]Row{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read snapshot header: %v", err)
	}
	columns, err := newColumnMap(statusColumns, header)
	if err != nil {
		return nil, err
	}

	rows := map[string]Row{}
	for {
		record, readErr := reader.Read()
		switch readErr {
		case nil:
			values, valErr := columns.values(record)
			if valErr != nil {
				util.LogAlert(ctx, "Skipping malformed snapshot record: "+valErr.Error())
				continue
			}
			row := rowFromValues(values)
			rows[row.ArchivePath] = row
		case io.EOF:
			return rows, nil
		default:
			util.LogAlert(ctx, "Skipping unreadable snapshot record: "+readErr.Error())
		}
	}
}

func rowFromValues(values map[string]string) Row {
	sourceExists, _ := strconv.ParseBool(values["SourceExists"])
	serviceExists, _ := strconv.ParseBool(values["ServiceExists"])
	return Row{
		Sensor:          values["Sensor"],
		ArchivePath:     values["ZipFile"],
		SourceExists:    sourceExists,
		SourceLocation:  values["SourceLocation"],
		ServiceExists:   serviceExists,
		ServiceSource:   values["ServiceSource"],
		ServiceRecordID: values["ServiceRecordId"],
		ServiceName:     values["SourceServiceName"],
		RGBRecordID:     values["RgbRecordId"],
	}
}
