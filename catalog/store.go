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

// Package catalog persists archive extents and per-archive metadata
// records, idempotently.
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/worldbank/ImageryStorage/model"
)

// Store persists the flat extents table: one row per archive
type Store struct {
	DB *sql.DB
}

// referenceFrameLabel renders the native frame column: "EPSG:<code>", or
// "mixed" when the archive's tiles span frames
func referenceFrameLabel(epsg int) string {
	if epsg == 0 {
		return "mixed"
	}
	return fmt.Sprintf("EPSG:%d", epsg)
}

// UpsertExtent writes one archive's extent row. Re-running an unchanged
// batch recomputes the same geometry and the upsert leaves the row
// byte-identical, so whole-batch re-runs are safe at any point.
func (s *Store) UpsertExtent(extent model.ArchiveExtent, identity model.ArchiveIdentity) error {
	wkt, err := MarshalWKT(extent.Geometry)
	if err != nil {
		return err
	}
	encoded, err := encodeGeometry(extent.Geometry)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(`
		INSERT INTO public.archive_extents (
			zip_file, file_name, reference_frame, footprint_wkt, geo_wgs84,
			geometry_geojson, xmin, ymin, xmax, ymax,
			min_resolution, max_resolution, min_bands, max_bands,
			min_date, max_date, native_epsg, tile_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
		ON CONFLICT (zip_file) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			reference_frame = EXCLUDED.reference_frame,
			footprint_wkt = EXCLUDED.footprint_wkt,
			geo_wgs84 = EXCLUDED.geo_wgs84,
			geometry_geojson = EXCLUDED.geometry_geojson,
			xmin = EXCLUDED.xmin, ymin = EXCLUDED.ymin,
			xmax = EXCLUDED.xmax, ymax = EXCLUDED.ymax,
			min_resolution = EXCLUDED.min_resolution,
			max_resolution = EXCLUDED.max_resolution,
			min_bands = EXCLUDED.min_bands, max_bands = EXCLUDED.max_bands,
			min_date = EXCLUDED.min_date, max_date = EXCLUDED.max_date,
			native_epsg = EXCLUDED.native_epsg,
			tile_count = EXCLUDED.tile_count`,
		extent.ArchivePath, identity.String(), referenceFrameLabel(extent.NativeEPSG),
		wkt, wkt, encoded,
		extent.Bounds.XMin, extent.Bounds.YMin, extent.Bounds.XMax, extent.Bounds.YMax,
		extent.MinResolution, extent.MaxResolution, extent.MinBands, extent.MaxBands,
		extent.MinDate, extent.MaxDate, extent.NativeEPSG, extent.TileCount,
	)
	return err
}

// GetExtent implements the extent builder's idempotence lookup. A missing
// row returns nil without error.
func (s *Store) GetExtent(archivePath string) (*model.ArchiveExtent, error) {
	row := s.DB.QueryRow(`
		SELECT geometry_geojson, xmin, ymin, xmax, ymax,
			min_resolution, max_resolution, min_bands, max_bands,
			min_date, max_date, native_epsg, tile_count
		FROM public.archive_extents
		WHERE zip_file = $1
		LIMIT 1`,
		archivePath,
	)

	var geometryBytes []byte
	extent := model.ArchiveExtent{ArchivePath: archivePath}
	err := row.Scan(&geometryBytes,
		&extent.Bounds.XMin, &extent.Bounds.YMin, &extent.Bounds.XMax, &extent.Bounds.YMax,
		&extent.MinResolution, &extent.MaxResolution, &extent.MinBands, &extent.MaxBands,
		&extent.MinDate, &extent.MaxDate, &extent.NativeEPSG, &extent.TileCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	extent.Geometry, err = geojson.Parse(geometryBytes)
	if err != nil {
		return nil, fmt.Errorf("stored extent geometry for %s is unreadable: %v", archivePath, err)
	}
	return &extent, nil
}

func encodeGeometry(geometry interface{}) ([]byte, error) {
	return geojson.Write(geometry)
}
