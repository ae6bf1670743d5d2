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

package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

func boundaryFixture(t *testing.T) *BoundarySet {
	nigeria := geojson.NewFeature(
		model.Bounds{XMin: 2, YMin: 4, XMax: 15, YMax: 14}.Polygon(),
		"f1",
		map[string]interface{}{"WB_ADM0_NA": "Nigeria", "ISO3": "NGA"})
	chad := geojson.NewFeature(
		model.Bounds{XMin: 15, YMin: 7, XMax: 24, YMax: 23}.Polygon(),
		"f2",
		map[string]interface{}{"WB_ADM0_NA": "Chad", "ISO3": "TCD"})

	set, err := NewBoundarySet(geojson.NewFeatureCollection([]*geojson.Feature{nigeria, chad}))
	assert.NoError(t, err)
	return set
}

func TestIntersecting_SingleCountry(t *testing.T) {
	set := boundaryFixture(t)

	countries := set.Intersecting(model.Bounds{XMin: 7, YMin: 8, XMax: 8, YMax: 9})
	assert.Len(t, countries, 1)
	assert.Equal(t, Country{Name: "Nigeria", ISO3: "NGA"}, countries[0])
}

func TestIntersecting_SpanningExtent(t *testing.T) {
	set := boundaryFixture(t)

	countries := set.Intersecting(model.Bounds{XMin: 14, YMin: 8, XMax: 16, YMax: 9})
	assert.Len(t, countries, 2)
	assert.Equal(t, "NGA", countries[0].ISO3)
	assert.Equal(t, "TCD", countries[1].ISO3)
}

func TestIntersecting_NoOverlap(t *testing.T) {
	set := boundaryFixture(t)
	assert.Empty(t, set.Intersecting(model.Bounds{XMin: -60, YMin: -20, XMax: -59, YMax: -19}))
}

func TestGenerate_Deterministic(t *testing.T) {
	generator := Generator{Boundaries: boundaryFixture(t)}
	extent := model.ArchiveExtent{
		ArchivePath:   "/dist/WV02/delivery_1.zip",
		Bounds:        model.Bounds{XMin: 7, YMin: 8, XMax: 8, YMax: 9},
		MinResolution: 0.5, MaxResolution: 0.5,
		MinBands: 4, MaxBands: 4,
		MinDate: "20170108", MaxDate: "20170108",
	}

	first := generator.Generate(&util.BasicLogContext{}, extent)
	second := generator.Generate(&util.BasicLogContext{}, extent)

	assert.Equal(t, first, second)
	assert.Equal(t, "NGA", first.ISO3)
	assert.Equal(t, "Nigeria", first.CountryNames)
	assert.Len(t, first.Geohash, model.GeohashPrecision)
	assert.Equal(t, "4", first.BandRange)
	assert.Equal(t, "0.5", first.ResolutionRange)
	assert.Equal(t, "20170108", first.DateRange)
	assert.True(t, first.Resolved())
}

func TestGenerate_MultipleCountriesJoined(t *testing.T) {
	generator := Generator{Boundaries: boundaryFixture(t)}
	extent := model.ArchiveExtent{
		Bounds:  model.Bounds{XMin: 14, YMin: 8, XMax: 16, YMax: 9},
		MinDate: "20170108", MaxDate: "20170212",
		MinBands: 1, MaxBands: 8,
	}

	id := generator.Generate(&util.BasicLogContext{}, extent)
	assert.Equal(t, "NGA;TCD", id.ISO3)
	assert.Equal(t, "Nigeria;Chad", id.CountryNames)
	assert.Equal(t, "20170108,20170212", id.DateRange)
	assert.Equal(t, "1,8", id.BandRange)
}

func TestGenerate_DegenerateExtentGetsSentinelGeohash(t *testing.T) {
	generator := Generator{Boundaries: boundaryFixture(t)}
	id := generator.Generate(&util.BasicLogContext{}, model.ArchiveExtent{})

	assert.Equal(t, model.SentinelGeohash, id.Geohash)
	assert.False(t, id.Resolved())
}

func TestGenerate_NoBoundaries(t *testing.T) {
	id := Generator{}.Generate(&util.BasicLogContext{}, model.ArchiveExtent{
		Bounds: model.Bounds{XMin: 7, YMin: 8, XMax: 8, YMax: 9},
	})
	assert.Empty(t, id.ISO3)
	assert.False(t, id.Resolved())
}
