package model

// SentinelDate marks a capture date that could not be resolved. Records
// carrying it are ineligible for final cataloging until resolved.
const SentinelDate = "YYYYMMDD"

// SentinelGeohash marks a centroid geohash that could not be computed
const SentinelGeohash = "XXXXXXXXX"

// GeohashPrecision is the fixed precision for identity geohashes
const GeohashPrecision = 12

// CanonicalEPSG is the common geographic reference frame (longitude/latitude)
const CanonicalEPSG = 4326

// WebMercatorEPSG is the projected meter-based frame used for resolution
// normalization
const WebMercatorEPSG = 3857
