package settings

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Settings is the map preview configuration group. It is read from a YAML
// file and serialized verbatim into every generated preview page, so every
// field carries both YAML and JSON tags.
type Settings struct {
	DefaultBaseLayer  string            `yaml:"defaultBaseLayer" json:"defaultBaseLayer"`
	DeclutterLabels   bool              `yaml:"declutterLabels" json:"declutterLabels"`
	CoordinateDisplay CoordinateDisplay `yaml:"coordinateDisplay" json:"coordinateDisplay"`
	Style             FeatureStyle      `yaml:"style" json:"style"`
	SelectionStyle    FeatureStyle      `yaml:"selectionStyle" json:"selectionStyle"`
	Projections       []Projection      `yaml:"projections" json:"projections"`
	CSVColumnAliases  []ColumnAlias     `yaml:"csvColumnAliases" json:"csvColumnAliases"`
	Debug             Debug             `yaml:"debug" json:"-"`
}

// CoordinateDisplay controls the mouse-position readout on the map.
type CoordinateDisplay struct {
	Projection string `yaml:"projection" json:"projection"`
	Format     string `yaml:"format" json:"format"`
}

// FeatureStyle holds per-geometry-type styling.
type FeatureStyle struct {
	Line    LineStyle    `yaml:"line" json:"line"`
	Polygon PolygonStyle `yaml:"polygon" json:"polygon"`
	Point   PointStyle   `yaml:"point" json:"point"`
}

// LineStyle styles line geometries.
type LineStyle struct {
	Stroke Stroke      `yaml:"stroke" json:"stroke"`
	Vertex VertexStyle `yaml:"vertex" json:"vertex"`
}

// PolygonStyle styles polygon geometries.
type PolygonStyle struct {
	Stroke Stroke      `yaml:"stroke" json:"stroke"`
	Fill   Fill        `yaml:"fill" json:"fill"`
	Vertex VertexStyle `yaml:"vertex" json:"vertex"`
}

// PointStyle styles point geometries.
type PointStyle struct {
	Radius float64 `yaml:"radius" json:"radius"`
	Stroke Stroke  `yaml:"stroke" json:"stroke"`
	Fill   Fill    `yaml:"fill" json:"fill"`
}

// Stroke describes an outline.
type Stroke struct {
	Color string  `yaml:"color" json:"color"`
	Width float64 `yaml:"width" json:"width"`
}

// Fill describes an interior fill.
type Fill struct {
	Color string `yaml:"color" json:"color"`
}

// VertexStyle styles the vertices of line and polygon geometries.
type VertexStyle struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Radius  float64 `yaml:"radius" json:"radius"`
	Fill    Fill    `yaml:"fill" json:"fill"`
}

// Projection is a user-configured coordinate reference system.
type Projection struct {
	EpsgCode   int    `yaml:"epsgCode" json:"epsgCode"`
	Definition string `yaml:"definition" json:"definition"`
}

// ColumnAlias maps CSV column names to coordinate axes.
type ColumnAlias struct {
	XColumn string `yaml:"xColumn" json:"xColumn"`
	YColumn string `yaml:"yColumn" json:"yColumn"`
}

// Debug holds debug-only settings, never shipped into the page.
type Debug struct {
	// DumpContentPath, when non-empty, receives the generated body of every
	// preview. The body only, not the full document shell.
	DumpContentPath string `yaml:"dumpContentPath"`
}

// Default returns the settings used when no file is configured.
func Default() *Settings {
	return &Settings{
		DefaultBaseLayer: "osm",
		DeclutterLabels:  false,
		CoordinateDisplay: CoordinateDisplay{
			Projection: "EPSG:4326",
			Format:     "Lat: {y}, Lng: {x}",
		},
		Style: FeatureStyle{
			Line: LineStyle{
				Stroke: Stroke{Color: "rgba(49, 159, 211, 1)", Width: 2},
				Vertex: VertexStyle{Enabled: false, Radius: 3, Fill: Fill{Color: "rgba(49, 159, 211, 1)"}},
			},
			Polygon: PolygonStyle{
				Stroke: Stroke{Color: "rgba(49, 159, 211, 1)", Width: 2},
				Fill:   Fill{Color: "rgba(49, 159, 211, 0.1)"},
				Vertex: VertexStyle{Enabled: false, Radius: 3, Fill: Fill{Color: "rgba(49, 159, 211, 1)"}},
			},
			Point: PointStyle{
				Radius: 5,
				Stroke: Stroke{Color: "rgba(49, 159, 211, 1)", Width: 1},
				Fill:   Fill{Color: "rgba(49, 159, 211, 0.2)"},
			},
		},
		SelectionStyle: FeatureStyle{
			Line: LineStyle{
				Stroke: Stroke{Color: "rgba(255, 0, 0, 1)", Width: 2},
				Vertex: VertexStyle{Enabled: false, Radius: 3, Fill: Fill{Color: "rgba(255, 0, 0, 1)"}},
			},
			Polygon: PolygonStyle{
				Stroke: Stroke{Color: "rgba(255, 0, 0, 1)", Width: 2},
				Fill:   Fill{Color: "rgba(255, 0, 0, 0.1)"},
				Vertex: VertexStyle{Enabled: false, Radius: 3, Fill: Fill{Color: "rgba(255, 0, 0, 1)"}},
			},
			Point: PointStyle{
				Radius: 5,
				Stroke: Stroke{Color: "rgba(255, 0, 0, 1)", Width: 1},
				Fill:   Fill{Color: "rgba(255, 0, 0, 0.2)"},
			},
		},
		Projections: nil,
		CSVColumnAliases: []ColumnAlias{
			{XColumn: "lon", YColumn: "lat"},
			{XColumn: "lng", YColumn: "lat"},
			{XColumn: "longitude", YColumn: "latitude"},
			{XColumn: "x", YColumn: "y"},
			{XColumn: "easting", YColumn: "northing"},
		},
	}
}

// Load reads settings from a YAML file. Keys absent from the file keep their
// default values. An empty path returns the defaults untouched.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return s, nil
}
