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

// Package inventory enumerates candidate archives from a vendor
// distribution tree. Pure traversal: no side effects on the tree.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/worldbank/ImageryStorage/model"
	"github.com/worldbank/ImageryStorage/util"
)

// DefaultExcludedSensors are sensor categories handled by a separate
// pipeline and omitted from the inventory entirely
var DefaultExcludedSensors = []string{"SPOT5", "DRONE", "DEM", "AERIAL"}

// Policy configures which deliveries the inventory lists
type Policy struct {
	ExcludedSensors []string
}

// DefaultPolicy returns the standard exclusion policy
func DefaultPolicy() Policy {
	return Policy{ExcludedSensors: DefaultExcludedSensors}
}

func (p Policy) sensorExcluded(sensor string) bool {
	for _, excluded := range p.ExcludedSensors {
		if strings.EqualFold(sensor, excluded) {
			return true
		}
	}
	return false
}

// List walks the vendor distribution root and returns every archive file
// under it, tagged with the sensor inferred from its immediate parent
// directory. Unreadable directories are skipped with a warning; archives
// whose manifest cannot be read are reported as failed units but do not
// stop the scan.
func List(ctx util.LogContext, root string, policy Policy) ([]model.VendorArchive, []model.UnitResult) {
	var archives []model.VendorArchive
	var failures []model.UnitResult

	walkErr := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogAlert(ctx, fmt.Sprintf("Skipping unreadable path during inventory: %s (%v)", p, err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !isArchiveName(info.Name()) {
			return nil
		}

		sensor := filepath.Base(filepath.Dir(p))
		if policy.sensorExcluded(sensor) {
			return nil
		}

		manifest, manifestErr := Manifest(p)
		if manifestErr != nil {
			util.LogSimpleErr(ctx, "Could not read archive manifest: "+p, manifestErr)
			failures = append(failures, model.FailedResult(p, "inventory", manifestErr.Error()))
			return nil
		}

		archives = append(archives, model.VendorArchive{
			ArchivePath: p,
			Sensor:      sensor,
			Vendor:      model.DetermineVendor(manifest),
			Manifest:    manifest,
		})
		return nil
	})
	if walkErr != nil {
		util.LogSimpleErr(ctx, "Inventory walk ended early for root "+root, walkErr)
	}

	return archives, failures
}

func isArchiveName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".zip") ||
		strings.HasSuffix(lower, ".tar.gz") ||
		strings.HasSuffix(lower, ".tgz")
}
