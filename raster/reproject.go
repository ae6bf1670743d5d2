package raster

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"

	"github.com/worldbank/ImageryStorage/model"
)

// Reprojector transforms coordinates between reference frames, identified
// by EPSG code
type Reprojector interface {
	Transform(fromEPSG, toEPSG int, x, y float64) (float64, float64, error)
}

// EPSGReprojector reprojects using the built-in EPSG registry
type EPSGReprojector struct{}

// Transform implements the Reprojector interface
func (EPSGReprojector) Transform(fromEPSG, toEPSG int, x, y float64) (float64, float64, error) {
	if fromEPSG == toEPSG {
		return x, y, nil
	}

	repository := wgs84.EPSG()
	from := repository.Code(fromEPSG)
	if from == nil {
		return 0, 0, fmt.Errorf("unsupported source reference frame: EPSG:%d", fromEPSG)
	}
	to := repository.Code(toEPSG)
	if to == nil {
		return 0, 0, fmt.Errorf("unsupported destination reference frame: EPSG:%d", toEPSG)
	}

	outX, outY, _ := wgs84.Transform(from, to)(x, y, 0)
	if math.IsNaN(outX) || math.IsInf(outX, 0) || math.IsNaN(outY) || math.IsInf(outY, 0) {
		return 0, 0, fmt.Errorf("reprojection EPSG:%d -> EPSG:%d produced a degenerate coordinate for (%f, %f)", fromEPSG, toEPSG, x, y)
	}
	return outX, outY, nil
}

// NormalizeResolution reports a tile's per-pixel resolution in meters.
// Projected frames already use linear units and pass through unchanged.
// Geographic frames express resolution in angular degrees, which are not
// comparable across latitudes: a one-unit vertical segment at the origin is
// reprojected into the meter-based Web Mercator frame and its length taken
// as the resolution.
func NormalizeResolution(reprojector Reprojector, epsg int, nativeResolution float64) (float64, error) {
	if epsg != model.CanonicalEPSG {
		return nativeResolution, nil
	}

	x0, y0, err := reprojector.Transform(model.CanonicalEPSG, model.WebMercatorEPSG, 0, 0)
	if err != nil {
		return 0, err
	}
	x1, y1, err := reprojector.Transform(model.CanonicalEPSG, model.WebMercatorEPSG, 0, nativeResolution)
	if err != nil {
		return 0, err
	}
	return math.Hypot(x1-x0, y1-y0), nil
}
