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

package provenance

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

func TestSourceFolder(t *testing.T) {
	archive := model.VendorArchive{ArchivePath: "/dist/WV02/delivery_1.zip", Sensor: "WV02"}
	assert.Equal(t, filepath.Join("/source", "WV02", "delivery_1"), SourceFolder("/source", archive))

	tarArchive := model.VendorArchive{ArchivePath: "/dist/GE01/delivery_2.tar.gz", Sensor: "GE01"}
	assert.Equal(t, filepath.Join("/source", "GE01", "delivery_2"), SourceFolder("/source", tarArchive))
}

func TestMatchRatio(t *testing.T) {
	present := map[string]bool{"a.tif": true, "b.tif": true}

	assert.Equal(t, 1.0, MatchRatio([]string{"a.tif", "b.tif"}, present))
	assert.InDelta(t, 2.0/3.0, MatchRatio([]string{"a.tif", "readme.txt", "b.tif"}, present), 1e-9)
	assert.Equal(t, 0.0, MatchRatio([]string{"c.tif"}, present))

	// No manifest is no evidence, not vacuous completion.
	assert.Equal(t, 0.0, MatchRatio(nil, present))
}

func TestReconcileSource_MajorityMatch(t *testing.T) {
	sourceRoot, _ := ioutil.TempDir("", "source")
	defer os.RemoveAll(sourceRoot)

	archive := model.VendorArchive{
		ArchivePath: "/dist/WV02/delivery_1.zip",
		Sensor:      "WV02",
		Manifest:    []string{"a.tif", "readme.txt", "b.tif"},
	}
	folder := SourceFolder(sourceRoot, archive)
	os.MkdirAll(folder, 0755)
	ioutil.WriteFile(filepath.Join(folder, "a.tif"), []byte("x"), 0644)
	ioutil.WriteFile(filepath.Join(folder, "b.tif"), []byte("x"), 0644)

	status := DefaultPolicy().ReconcileSource(archive, folder)
	assert.True(t, status.SourceExists)
	assert.Equal(t, folder, status.SourceLocation)
	assert.InDelta(t, 2.0/3.0, status.MatchRatio, 1e-9)
}

func TestReconcileSource_ThresholdIsStrict(t *testing.T) {
	sourceRoot, _ := ioutil.TempDir("", "source")
	defer os.RemoveAll(sourceRoot)

	archive := model.VendorArchive{
		ArchivePath: "/dist/WV02/delivery_1.zip",
		Sensor:      "WV02",
		Manifest:    []string{"a.tif", "b.tif"},
	}
	folder := SourceFolder(sourceRoot, archive)
	os.MkdirAll(folder, 0755)
	ioutil.WriteFile(filepath.Join(folder, "a.tif"), []byte("x"), 0644)

	// Exactly half matched does not clear a 0.50 threshold.
	status := Policy{SourceMatchThreshold: 0.50}.ReconcileSource(archive, folder)
	assert.Equal(t, 0.5, status.MatchRatio)
	assert.False(t, status.SourceExists)
}

func TestReconcileSource_MissingFolder(t *testing.T) {
	archive := model.VendorArchive{
		ArchivePath: "/dist/WV02/delivery_1.zip",
		Sensor:      "WV02",
		Manifest:    []string{"a.tif"},
	}
	status := DefaultPolicy().ReconcileSource(archive, "/nonexistent/WV02/delivery_1")
	assert.False(t, status.SourceExists)
	assert.Equal(t, 0.0, status.MatchRatio)
}

func TestReconcileService_MatchesManifestMembers(t *testing.T) {
	archive := model.VendorArchive{
		ArchivePath: "/dist/WV02/delivery_1.zip",
		Sensor:      "WV02",
		Manifest:    []string{"17JAN08120538.tif"},
	}
	records := []CatalogRecord{
		{RecordID: "rec-1", Path: "/published/other_tile.tif", ServiceName: "WV02_RAW", Source: "imagery-store"},
		{RecordID: "rec-2", Path: `\\published\WV02\17JAN08120538.tif`, ServiceName: "WV02_RAW", Source: "imagery-store"},
		{RecordID: "rec-3", Path: "/published/rgb/17JAN08120538.tif", ServiceName: DerivedRGBServiceName, Source: "imagery-store"},
	}

	status := model.ProvenanceStatus{}
	DefaultPolicy().ReconcileService(&status, archive, records)

	assert.True(t, status.ServiceExists)
	assert.Equal(t, "rec-2", status.ServiceRecordID)
	assert.Equal(t, "WV02_RAW", status.ServiceName)
	assert.Equal(t, "imagery-store", status.ServiceSource)
	assert.Equal(t, "rec-3", status.RGBRecordID)

	// The published-implies-extracted repair fired.
	assert.True(t, status.SourceExists)
}

func TestReconcileService_RepairDisabled(t *testing.T) {
	archive := model.VendorArchive{Manifest: []string{"a.tif"}}
	records := []CatalogRecord{{RecordID: "rec-1", Path: "a.tif", ServiceName: "RAW"}}

	status := model.ProvenanceStatus{}
	Policy{SourceMatchThreshold: 0.5, RepairServiceImpliesSource: false}.ReconcileService(&status, archive, records)

	assert.True(t, status.ServiceExists)
	assert.False(t, status.SourceExists)
}

func TestReconcile_EndToEnd(t *testing.T) {
	sourceRoot, _ := ioutil.TempDir("", "source")
	defer os.RemoveAll(sourceRoot)

	archive := model.VendorArchive{
		ArchivePath: "/dist/WV02/delivery_1.zip",
		Sensor:      "WV02",
		Manifest:    []string{"a.tif", "readme.txt", "b.tif"},
	}
	folder := SourceFolder(sourceRoot, archive)
	os.MkdirAll(folder, 0755)
	ioutil.WriteFile(filepath.Join(folder, "a.tif"), []byte("x"), 0644)
	ioutil.WriteFile(filepath.Join(folder, "b.tif"), []byte("x"), 0644)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/catalog/WV02", r.URL.Path)
		w.Write([]byte(`{"records":[{"recordId":"rec-9","path":"/published/a.tif","serviceName":"WV02_RAW","source":"imagery-store"}]}`))
	}))
	defer server.Close()

	client := &HTTPCatalogClient{BaseURL: server.URL}
	status, miss := DefaultPolicy().Reconcile(&util.BasicLogContext{}, archive, sourceRoot, client)

	assert.Nil(t, miss)
	assert.True(t, status.SourceExists)
	assert.True(t, status.ServiceExists)
	assert.Equal(t, "rec-9", status.ServiceRecordID)
}

func TestReconcile_CatalogOutageDegradesToMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	archive := model.VendorArchive{ArchivePath: "/dist/WV02/delivery_1.zip", Sensor: "WV02", Manifest: []string{"a.tif"}}
	client := &HTTPCatalogClient{BaseURL: server.URL}
	status, miss := DefaultPolicy().Reconcile(&util.BasicLogContext{}, archive, "/nonexistent", client)

	assert.NotNil(t, miss)
	assert.Equal(t, model.UnitSkipped, miss.Outcome)
	assert.False(t, status.ServiceExists)
}

func TestReconcile_NilClientSkipsServicePass(t *testing.T) {
	archive := model.VendorArchive{ArchivePath: "/dist/WV02/delivery_1.zip", Sensor: "WV02", Manifest: []string{"a.tif"}}
	status, miss := DefaultPolicy().Reconcile(&util.BasicLogContext{}, archive, "/nonexistent", nil)

	assert.Nil(t, miss)
	assert.False(t, status.ServiceExists)
}
