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

package util

import (
	"os"
	"strconv"
)

// Environment variables
const (
	VENDOR_DISTRIBUTION_ROOT = "VENDOR_DISTRIBUTION_ROOT"
	IMAGERY_SOURCE_ROOT      = "IMAGERY_SOURCE_ROOT"
	CATALOG_OUTPUT_ROOT      = "CATALOG_OUTPUT_ROOT"
	ADMIN_BOUNDARIES_PATH    = "ADMIN_BOUNDARIES_PATH"
	PUBLICATION_CATALOG_URL  = "PUBLICATION_CATALOG_URL"
	SOURCE_MATCH_THRESHOLD   = "SOURCE_MATCH_THRESHOLD"
	CATALOG_WORKER_COUNT     = "CATALOG_WORKER_COUNT"
)

const defaultWorkerCount = 4

// GetVendorDistributionRoot returns the folder holding vendor-delivered archives
func GetVendorDistributionRoot() string {
	root, ok := os.LookupEnv(VENDOR_DISTRIBUTION_ROOT)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get vendor distribution root from the environment. Inventory will be empty.")
	}
	return root
}

// GetImagerySourceRoot returns the folder holding extracted/tiled source imagery
func GetImagerySourceRoot() string {
	root, ok := os.LookupEnv(IMAGERY_SOURCE_ROOT)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get imagery source root from the environment. Source reconciliation will find nothing.")
	}
	return root
}

// GetCatalogOutputRoot returns the folder receiving ledger logs and metadata records
func GetCatalogOutputRoot() string {
	root, ok := os.LookupEnv(CATALOG_OUTPUT_ROOT)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get catalog output root from the environment.")
	}
	return root
}

// GetAdminBoundariesPath returns the path to the admin boundary GeoJSON dataset
func GetAdminBoundariesPath() string {
	path, ok := os.LookupEnv(ADMIN_BOUNDARIES_PATH)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get admin boundaries path from the environment. Country resolution will not be available.")
	}
	return path
}

// GetPublicationCatalogURL returns the base URL of the publication catalog service
func GetPublicationCatalogURL() string {
	url, ok := os.LookupEnv(PUBLICATION_CATALOG_URL)
	if !ok {
		LogInfo(&BasicLogContext{}, "Did not get publication catalog URL from the environment. Service reconciliation will assume nothing is published.")
	}
	return url
}

// GetSourceMatchThreshold returns the manifest match ratio above which an
// archive counts as extracted, or the given default when unset or unparseable
func GetSourceMatchThreshold(fallback float64) float64 {
	raw, ok := os.LookupEnv(SOURCE_MATCH_THRESHOLD)
	if !ok {
		return fallback
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || threshold < 0 || threshold >= 1 {
		LogAlert(&BasicLogContext{}, "Ignoring invalid "+SOURCE_MATCH_THRESHOLD+" value: "+raw)
		return fallback
	}
	return threshold
}

// GetWorkerCount returns the archive worker pool size
func GetWorkerCount() int {
	raw, ok := os.LookupEnv(CATALOG_WORKER_COUNT)
	if !ok {
		return defaultWorkerCount
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		LogAlert(&BasicLogContext{}, "Ignoring invalid "+CATALOG_WORKER_COUNT+" value: "+raw)
		return defaultWorkerCount
	}
	return count
}
