// Package raster opens individual raster tiles, reads their footprint and
// resolution, and reprojects them into the canonical geographic frame.
// Raster decoding itself is delegated to an external reader; nothing here
// parses pixel data.
package raster

import "errors"

// ErrNotARaster signals that a file is not a usable raster: unreadable,
// undecodable, or lacking a defined reference frame. Such tiles are
// excluded from the archive's extent, never fatal to the batch.
var ErrNotARaster = errors.New("not a valid raster")

// Info is what the raster reader collaborator reports for one tile
type Info struct {
	// EPSGCode of the native reference frame; 0 when undefined
	EPSGCode int
	// Native-frame bounds
	Left   float64
	Bottom float64
	Right  float64
	Top    float64
	// Resolution is one native linear unit per pixel
	Resolution float64
	Bands      int
	Rows       int
	Cols       int
}

// Reader reads raster headers. Implementations wrap an external tool or
// library; the engine never re-implements raster decoding.
type Reader interface {
	Info(path string) (*Info, error)
}
