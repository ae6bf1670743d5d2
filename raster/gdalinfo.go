package raster

import (
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
)

// GDALReader reads raster headers by shelling out to gdalinfo, the same
// GDAL installation the tiling pipeline already requires
type GDALReader struct {
	// GdalinfoPath overrides the gdalinfo binary location; empty means $PATH
	GdalinfoPath string
}

type gdalinfoOutput struct {
	Size             []int     `json:"size"`
	GeoTransform     []float64 `json:"geoTransform"`
	CoordinateSystem struct {
		WKT string `json:"wkt"`
	} `json:"coordinateSystem"`
	Bands []struct {
		Band int `json:"band"`
	} `json:"bands"`
}

var (
	wkt2EPSGPattern = regexp.MustCompile(`ID\["EPSG",(\d+)\]`)
	wkt1EPSGPattern = regexp.MustCompile(`AUTHORITY\["EPSG","(\d+)"\]`)
)

// Info implements the Reader interface
func (r GDALReader) Info(path string) (*Info, error) {
	binary := r.GdalinfoPath
	if binary == "" {
		binary = "gdalinfo"
	}

	raw, err := exec.Command(binary, "-json", path).Output()
	if err != nil {
		return nil, fmt.Errorf("%w: gdalinfo failed for %s: %v", ErrNotARaster, path, err)
	}

	var parsed gdalinfoOutput
	if err = json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: could not parse gdalinfo output for %s: %v", ErrNotARaster, path, err)
	}

	return infoFromGdalinfo(path, parsed)
}

func infoFromGdalinfo(path string, parsed gdalinfoOutput) (*Info, error) {
	if len(parsed.Size) != 2 || len(parsed.GeoTransform) != 6 {
		return nil, fmt.Errorf("%w: %s has no georeferencing", ErrNotARaster, path)
	}

	epsg := epsgFromWKT(parsed.CoordinateSystem.WKT)
	if epsg == 0 {
		return nil, fmt.Errorf("%w: %s has no defined reference frame", ErrNotARaster, path)
	}

	cols, rows := parsed.Size[0], parsed.Size[1]
	gt := parsed.GeoTransform

	// Apply the geotransform at all four pixel corners; rotated
	// geotransforms still yield a correct axis-aligned envelope.
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, corner := range [][2]float64{{0, 0}, {float64(cols), 0}, {0, float64(rows)}, {float64(cols), float64(rows)}} {
		xs = append(xs, gt[0]+corner[0]*gt[1]+corner[1]*gt[2])
		ys = append(ys, gt[3]+corner[0]*gt[4]+corner[1]*gt[5])
	}

	info := Info{
		EPSGCode:   epsg,
		Left:       minOf(xs),
		Right:      maxOf(xs),
		Bottom:     minOf(ys),
		Top:        maxOf(ys),
		Resolution: math.Abs(gt[1]),
		Bands:      len(parsed.Bands),
		Rows:       rows,
		Cols:       cols,
	}
	return &info, nil
}

// epsgFromWKT recovers the EPSG code of the outermost CRS from a WKT1 or
// WKT2 string. The authority of the whole CRS is the last one listed.
func epsgFromWKT(wkt string) int {
	for _, pattern := range []*regexp.Regexp{wkt2EPSGPattern, wkt1EPSGPattern} {
		matches := pattern.FindAllStringSubmatch(wkt, -1)
		if len(matches) > 0 {
			code, err := strconv.Atoi(matches[len(matches)-1][1])
			if err == nil {
				return code
			}
		}
	}
	return 0
}

func minOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		if v > out {
			out = v
		}
	}
	return out
}
