package workspace

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format names reported to clients and shown in the panel overlay before the
// in-page renderer has detected the real driver.
const (
	FormatGeoJSON = "GeoJSON"
	FormatKML     = "KML"
	FormatCSV     = "CSV"
	FormatGPX     = "GPX"
	FormatIGC     = "IGC"
	FormatGML     = "GML"
)

var extFormats = map[string]string{
	".geojson": FormatGeoJSON,
	".json":    FormatGeoJSON,
	".kml":     FormatKML,
	".csv":     FormatCSV,
	".gpx":     FormatGPX,
	".igc":     FormatIGC,
	".gml":     FormatGML,
}

// DetectFormat returns a geospatial format hint for a document. The file
// extension wins; content sniffing is the fallback for extensionless paths.
// Returns "" when nothing matches; the in-page detector has the final say
// either way.
func DetectFormat(path string, data []byte) string {
	if f, ok := extFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}

	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/vnd.google-earth.kml+xml"):
		return FormatKML
	case mt.Is("application/gpx+xml"):
		return FormatGPX
	case mt.Is("application/geo+json"), mt.Is("application/json"):
		return FormatGeoJSON
	case mt.Is("text/csv"):
		return FormatCSV
	}
	return ""
}
