package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

// Up00001 creates the archive extents table
func Up00001(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE public.archive_extents (
			zip_file text PRIMARY KEY,
			file_name text NOT NULL,
			reference_frame text NOT NULL,
			footprint_wkt text NOT NULL,
			geo_wgs84 text NOT NULL,
			geometry_geojson json NOT NULL,
			xmin double precision NOT NULL,
			ymin double precision NOT NULL,
			xmax double precision NOT NULL,
			ymax double precision NOT NULL,
			min_resolution double precision NOT NULL,
			max_resolution double precision NOT NULL,
			min_bands integer NOT NULL,
			max_bands integer NOT NULL,
			min_date text NOT NULL,
			max_date text NOT NULL,
			native_epsg integer NOT NULL,
			tile_count integer NOT NULL
		);`)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`CREATE INDEX archive_extents_file_name_idx ON public.archive_extents (file_name);`)
	return err
}

// Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE public.archive_extents;`)
	return err
}
