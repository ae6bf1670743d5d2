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

// Package extent aggregates per-tile footprints into one validated
// archive-level extent.
package extent

import (
	"fmt"
	"sort"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// Store is the persisted-extent lookup used for the idempotence
// short-circuit. Lookup by archive identity; nil result means not yet
// persisted.
type Store interface {
	GetExtent(archivePath string) (*model.ArchiveExtent, error)
}

// Builder merges valid tile footprints into archive extents
type Builder struct {
	// Store enables the already-persisted short-circuit; nil disables it
	Store Store
}

// group is one (archive, native reference frame) set of footprints. Tiles
// of the same archive in different native frames are dissolved separately:
// a naive geometric union across mismatched frames is invalid.
type group struct {
	nativeEPSG int
	footprints []model.TileFootprint
}

func groupByFrame(footprints []model.TileFootprint) []group {
	byFrame := map[int][]model.TileFootprint{}
	for _, fp := range footprints {
		byFrame[fp.NativeEPSG] = append(byFrame[fp.NativeEPSG], fp)
	}

	frames := make([]int, 0, len(byFrame))
	for frame := range byFrame {
		frames = append(frames, frame)
	}
	sort.Ints(frames)

	groups := make([]group, len(frames))
	for i, frame := range frames {
		groups[i] = group{nativeEPSG: frame, footprints: byFrame[frame]}
	}
	return groups
}

// Build produces the archive's canonical extent from its valid tile
// footprints. Returns a nil extent with an explanatory result when the
// archive is short-circuited (already persisted) or excluded (bounds
// violate the geographic validity invariant).
func (b Builder) Build(ctx util.LogContext, archive model.VendorArchive, footprints []model.TileFootprint) (*model.ArchiveExtent, model.UnitResult) {
	if b.Store != nil {
		cached, err := b.Store.GetExtent(archive.ArchivePath)
		if err != nil {
			util.LogSimpleErr(ctx, "Extent store lookup failed for "+archive.ArchivePath, err)
		} else if cached != nil {
			return cached, model.SkippedResult(archive.ArchivePath, "extent", "extent already persisted")
		}
	}

	if len(footprints) == 0 {
		return nil, model.FailedResult(archive.ArchivePath, "extent", "archive has no valid raster tiles")
	}

	// Dissolve each frame group separately, then dissolve the per-group
	// results; every footprint is already in the canonical frame, so the
	// cross-group union is well defined.
	var canonicalRects []model.Bounds
	for _, grp := range groupByFrame(footprints) {
		rects := make([]model.Bounds, 0, len(grp.footprints))
		for _, fp := range grp.footprints {
			bounds, err := model.BoundsFromPolygon(fp.Footprint)
			if err != nil {
				util.LogAlert(ctx, fmt.Sprintf("Dropping degenerate footprint %s: %v", fp.FilePath, err))
				continue
			}
			rects = append(rects, bounds)
		}
		canonicalRects = append(canonicalRects, Dissolve(rects)...)
	}
	if len(canonicalRects) == 0 {
		return nil, model.FailedResult(archive.ArchivePath, "extent", "all footprints degenerate")
	}

	dissolved := Dissolve(canonicalRects)
	bounds := CoveringBounds(dissolved)

	// Reprojection failures can silently produce out-of-range geometry
	// (unresolved or misdeclared source frames). Such extents are excluded
	// from the catalog, never clamped.
	if !bounds.Valid() {
		reason := fmt.Sprintf("extent bounds outside geographic range: xmin=%f ymin=%f xmax=%f ymax=%f",
			bounds.XMin, bounds.YMin, bounds.XMax, bounds.YMax)
		util.LogAlert(ctx, "Excluding "+archive.ArchivePath+": "+reason)
		return nil, model.ExcludedResult(archive.ArchivePath, "extent", reason)
	}

	out := model.ArchiveExtent{
		ArchivePath: archive.ArchivePath,
		NativeEPSG:  sharedFrame(footprints),
		Geometry:    DissolvedGeometry(dissolved),
		Bounds:      bounds,
		TileCount:   len(footprints),
	}
	accumulateRanges(&out, footprints)

	return &out, model.SucceededResult(archive.ArchivePath, "extent")
}

// sharedFrame reports the native frame common to all footprints, or 0 when
// the archive mixes frames
func sharedFrame(footprints []model.TileFootprint) int {
	frame := footprints[0].NativeEPSG
	for _, fp := range footprints[1:] {
		if fp.NativeEPSG != frame {
			return 0
		}
	}
	return frame
}

func accumulateRanges(extent *model.ArchiveExtent, footprints []model.TileFootprint) {
	first := footprints[0]
	extent.MinResolution, extent.MaxResolution = first.Resolution, first.Resolution
	extent.MinBands, extent.MaxBands = first.Bands, first.Bands
	extent.MinDate, extent.MaxDate = first.CaptureDate, first.CaptureDate

	for _, fp := range footprints[1:] {
		if fp.Resolution < extent.MinResolution {
			extent.MinResolution = fp.Resolution
		}
		if fp.Resolution > extent.MaxResolution {
			extent.MaxResolution = fp.Resolution
		}
		if fp.Bands < extent.MinBands {
			extent.MinBands = fp.Bands
		}
		if fp.Bands > extent.MaxBands {
			extent.MaxBands = fp.Bands
		}
		if fp.CaptureDate < extent.MinDate {
			extent.MinDate = fp.CaptureDate
		}
		if fp.CaptureDate > extent.MaxDate {
			extent.MaxDate = fp.CaptureDate
		}
	}
}
