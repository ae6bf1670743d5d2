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

package ledger

import (
	"encoding/csv"
	"io/ioutil"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

func sampleRows() []Row {
	return []Row{
		{
			Sensor:          "WV02",
			ArchivePath:     "/dist/WV02/delivery_1.zip",
			SourceExists:    true,
			SourceLocation:  "/source/WV02/delivery_1",
			ServiceExists:   true,
			ServiceSource:   "imagery-store",
			ServiceRecordID: "rec-2",
			ServiceName:     "WV02_RAW",
			RGBRecordID:     "rec-3",
		},
		{
			Sensor:      "GE01",
			ArchivePath: "/dist/GE01/delivery_2.zip",
		},
	}
}

func TestWriteRun_CreatesDatedLogAndSnapshot(t *testing.T) {
	root, _ := ioutil.TempDir("", "ledger")
	defer os.RemoveAll(root)

	l := Ledger{OutputRoot: root}
	day := time.Date(2019, 6, 3, 12, 0, 0, 0, time.UTC)
	assert.NoError(t, l.WriteRun(&util.BasicLogContext{}, sampleRows(), day))

	assert.Contains(t, l.DatedLogPath(day), "imagery_log_2019_06_03.csv")
	datedContents, err := ioutil.ReadFile(l.DatedLogPath(day))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(datedContents), "Sensor,ZipFile,"))

	snapshotContents, err := ioutil.ReadFile(l.CurrentSnapshotPath())
	assert.NoError(t, err)
	assert.Equal(t, string(datedContents), string(snapshotContents))
}

func TestWriteRun_DatedLogAppendsSnapshotOverwrites(t *testing.T) {
	root, _ := ioutil.TempDir("", "ledger")
	defer os.RemoveAll(root)

	l := Ledger{OutputRoot: root}
	day := time.Date(2019, 6, 3, 9, 0, 0, 0, time.UTC)
	ctx := &util.BasicLogContext{}

	assert.NoError(t, l.WriteRun(ctx, sampleRows(), day))
	assert.NoError(t, l.WriteRun(ctx, sampleRows()[:1], day.Add(4*time.Hour)))

	datedFile, _ := os.Open(l.DatedLogPath(day))
	defer datedFile.Close()
	datedRecords, err := csv.NewReader(datedFile).ReadAll()
	assert.NoError(t, err)
	// Header once, then both runs' rows.
	assert.Len(t, datedRecords, 4)

	snapshot, err := l.ReadSnapshot(ctx)
	assert.NoError(t, err)
	assert.Len(t, snapshot, 1)
}

func TestReadSnapshot_Roundtrip(t *testing.T) {
	root, _ := ioutil.TempDir("", "ledger")
	defer os.RemoveAll(root)

	l := Ledger{OutputRoot: root}
	ctx := &util.BasicLogContext{}
	assert.NoError(t, l.WriteRun(ctx, sampleRows(), time.Now()))

	snapshot, err := l.ReadSnapshot(ctx)
	assert.NoError(t, err)
	assert.Len(t, snapshot, 2)
	assert.Equal(t, sampleRows()[0], snapshot["/dist/WV02/delivery_1.zip"])
	assert.Equal(t, sampleRows()[1], snapshot["/dist/GE01/delivery_2.zip"])
}

func TestReadSnapshot_MissingFileIsEmpty(t *testing.T) {
	root, _ := ioutil.TempDir("", "ledger")
	defer os.RemoveAll(root)

	snapshot, err := Ledger{OutputRoot: root}.ReadSnapshot(&util.BasicLogContext{})
	assert.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestReadSnapshot_ToleratesReorderedColumns(t *testing.T) {
	root, _ := ioutil.TempDir("", "ledger")
	defer os.RemoveAll(root)

	// An older snapshot with the sensor column moved to the end.
	contents := "ZipFile,SourceExists,SourceLocation,ServiceExists,ServiceSource,ServiceRecordId,SourceServiceName,RgbRecordId,Sensor\n" +
		"/dist/WV02/delivery_1.zip,true,/source/WV02/delivery_1,false,,,,,WV02\n"
	l := Ledger{OutputRoot: root}
	ioutil.WriteFile(l.CurrentSnapshotPath(), []byte(contents), 0644)

	snapshot, err := l.ReadSnapshot(&util.BasicLogContext{})
	assert.NoError(t, err)
	row := snapshot["/dist/WV02/delivery_1.zip"]
	assert.Equal(t, "WV02", row.Sensor)
	assert.True(t, row.SourceExists)
}

func TestRowStatusRoundtrip(t *testing.T) {
	archive := model.VendorArchive{ArchivePath: "/dist/WV02/delivery_1.zip", Sensor: "WV02"}
	status := model.ProvenanceStatus{
		SourceExists:    true,
		SourceLocation:  "/source/WV02/delivery_1",
		ServiceExists:   true,
		ServiceSource:   "imagery-store",
		ServiceRecordID: "rec-2",
		ServiceName:     "WV02_RAW",
		RGBRecordID:     "rec-3",
	}

	row := NewRow(archive, status)
	assert.Equal(t, status, row.Status())
}
