package raster

import (
	"fmt"

	"github.com/mmcloughlin/geohash"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// Extractor computes canonical-frame footprints for individual tiles
type Extractor struct {
	Reader      Reader
	Reprojector Reprojector
}

// NewExtractor builds an extractor on the standard collaborators
func NewExtractor() Extractor {
	return Extractor{Reader: GDALReader{}, Reprojector: EPSGReprojector{}}
}

// Extract opens one raster tile and returns its footprint reprojected into
// the canonical geographic frame, with resolution normalized to meters.
// cachedDate is the archive-level capture date when one is known (e.g.
// parsed once from a sidecar); empty means fall back to the vendor's
// filename convention and then the sentinel.
func (x Extractor) Extract(ctx util.LogContext, tilePath string, vendor model.Vendor, cachedDate string) (*model.TileFootprint, error) {
	info, err := x.Reader.Info(tilePath)
	if err != nil {
		return nil, err
	}

	footprint, err := x.reprojectFootprint(info)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotARaster, err)
	}

	resolution, err := NormalizeResolution(x.Reprojector, info.EPSGCode, info.Resolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotARaster, err)
	}

	bounds, err := model.BoundsFromPolygon(footprint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotARaster, err)
	}
	lon, lat := bounds.Centroid()

	return &model.TileFootprint{
		FilePath:    tilePath,
		NativeEPSG:  info.EPSGCode,
		Bands:       info.Bands,
		Resolution:  resolution,
		Footprint:   footprint,
		Geohash:     geohash.EncodeWithPrecision(lat, lon, model.GeohashPrecision),
		Rows:        info.Rows,
		Cols:        info.Cols,
		CaptureDate: x.resolveCaptureDate(ctx, tilePath, vendor, cachedDate),
	}, nil
}

// reprojectFootprint builds the native corner rectangle and reprojects each
// ring position into the canonical frame
func (x Extractor) reprojectFootprint(info *Info) (*geojson.Polygon, error) {
	corners := [][]float64{
		{info.Left, info.Bottom},
		{info.Left, info.Top},
		{info.Right, info.Top},
		{info.Right, info.Bottom},
		{info.Left, info.Bottom},
	}

	ring := make([][]float64, len(corners))
	for i, corner := range corners {
		lon, lat, err := x.Reprojector.Transform(info.EPSGCode, model.CanonicalEPSG, corner[0], corner[1])
		if err != nil {
			return nil, err
		}
		ring[i] = []float64{lon, lat}
	}

	return geojson.NewPolygon([][][]float64{ring}), nil
}

// resolveCaptureDate applies the resolution order: cached archive-level
// date, then the vendor filename convention, then the sentinel with a
// warning. Never an error that aborts the batch.
func (x Extractor) resolveCaptureDate(ctx util.LogContext, tilePath string, vendor model.Vendor, cachedDate string) string {
	if cachedDate != "" {
		return cachedDate
	}

	date, err := model.CaptureDateFromFilename(vendor, tilePath)
	if err == nil {
		return date
	}

	util.LogAlert(ctx, fmt.Sprintf("Could not determine capture date for %s: %v", tilePath, err))
	return model.SentinelDate
}
