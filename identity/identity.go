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

// Package identity derives deterministic archive identities from geometry
// and metadata via a spatial join against admin boundaries.
package identity

import (
	"fmt"
	"strings"

	"github.com/mmcloughlin/geohash"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// countryDelimiter joins names/codes when an extent spans multiple
// countries; archives are not forced to a single country
const countryDelimiter = ";"

// Generator computes archive identities against a loaded boundary set
type Generator struct {
	Boundaries *BoundarySet
}

// Generate derives the canonical identity for an archive extent. Pure
// function of the extent and boundary set: identical inputs always produce
// the identical identity string.
func (g Generator) Generate(ctx util.LogContext, extent model.ArchiveExtent) model.ArchiveIdentity {
	id := model.ArchiveIdentity{
		Geohash:         centroidGeohash(ctx, extent),
		BandRange:       model.CollapseIntRange(extent.MinBands, extent.MaxBands),
		ResolutionRange: model.CollapseFloatRange(extent.MinResolution, extent.MaxResolution),
		DateRange:       model.CollapseRange(extent.MinDate, extent.MaxDate),
	}

	if g.Boundaries != nil {
		countries := g.Boundaries.Intersecting(extent.Bounds)
		names := make([]string, len(countries))
		codes := make([]string, len(countries))
		for i, country := range countries {
			names[i] = country.Name
			codes[i] = country.ISO3
		}
		id.CountryNames = strings.Join(names, countryDelimiter)
		id.ISO3 = strings.Join(codes, countryDelimiter)
	}

	return id
}

// centroidGeohash encodes the extent centroid at fixed precision,
// substituting the sentinel for degenerate geometry rather than failing
// the archive
func centroidGeohash(ctx util.LogContext, extent model.ArchiveExtent) string {
	if !extent.Bounds.Valid() {
		util.LogAlert(ctx, fmt.Sprintf("Degenerate extent for %s; using sentinel geohash", extent.ArchivePath))
		return model.SentinelGeohash
	}
	lon, lat := extent.Bounds.Centroid()
	return geohash.EncodeWithPrecision(lat, lon, model.GeohashPrecision)
}
