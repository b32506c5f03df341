// Package wrapstudio is the core of a vehicle-wrap design tool.
//
// A template image (dark outline art on a light background) is segmented
// into a paintable interior and a template overlay. Repeated text is tiled
// over the interior, regions of the flattened composition can be flood
// filled, procedural patterns are rendered from a named library and layers
// can be color adjusted.
//
// The functions in this package are thin, stateless entry points over the
// subpackages:
//
//	mask      template segmentation
//	textfill  region-constrained text pattern synthesis
//	bucket    tolerance-bounded flood fill
//	pattern   procedural pattern library
//	adjust    hue, saturation, brightness and contrast
//	editor    layer stack, compositing and undo history
//	server    HTTP surface for editing sessions
//
// All results are plain data: PNG bytes, pixel buffers and masks.
//
// Logging is silent until SetLogger is called.
package wrapstudio
