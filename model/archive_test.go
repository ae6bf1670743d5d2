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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineVendor_GBDXMarkerWins(t *testing.T) {
	vendor := DetermineVendor([]string{"tile1.tif", "gbdx_clip_log.txt", "17JAN08_BROWSE.JPG"})
	assert.Equal(t, VendorGBDX, vendor)
}

func TestDetermineVendor_MaxarBrowseImage(t *testing.T) {
	vendor := DetermineVendor([]string{"17JAN08120538-M2AS-056939240010_01_P001-BROWSE.JPG", "tile1.tif"})
	assert.Equal(t, VendorMaxar, vendor)
}

func TestDetermineVendor_SPOTPreview(t *testing.T) {
	vendor := DetermineVendor([]string{"PREVIEW_DS_SPOT6_201703.JPG", "IMG_SPOT6.TIF"})
	assert.Equal(t, VendorSPOT, vendor)
}

func TestDetermineVendor_NoMarker(t *testing.T) {
	vendor := DetermineVendor([]string{"tile1.tif", "readme.txt"})
	assert.Equal(t, VendorUnknown, vendor)
}

func TestVendorArchiveBaseName_WindowsSeparators(t *testing.T) {
	archive := VendorArchive{ArchivePath: `X:\distribution\WV02\delivery_1.zip`}
	assert.Equal(t, "delivery_1.zip", archive.BaseName())
}

func TestRepairInvariant_PublishedImpliesExtracted(t *testing.T) {
	status := ProvenanceStatus{SourceExists: false, ServiceExists: true}
	status.RepairInvariant()
	assert.True(t, status.SourceExists)
}

func TestRepairInvariant_UnpublishedLeftAlone(t *testing.T) {
	status := ProvenanceStatus{SourceExists: false, ServiceExists: false}
	status.RepairInvariant()
	assert.False(t, status.SourceExists)
}
