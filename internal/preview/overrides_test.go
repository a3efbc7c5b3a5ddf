package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverridesSetGet(t *testing.T) {
	o := NewOverrides()
	identity := MakeIdentity("/data/points.geojson")

	_, ok := o.Get(identity)
	assert.False(t, ok, "fresh store must be empty")

	o.Set(identity, "EPSG:3857")
	code, ok := o.Get(identity)
	assert.True(t, ok)
	assert.Equal(t, "EPSG:3857", code)
}

func TestOverridesOverwrite(t *testing.T) {
	o := NewOverrides()
	identity := MakeIdentity("/data/points.geojson")

	o.Set(identity, "EPSG:3857")
	o.Set(identity, "EPSG:2193")

	code, ok := o.Get(identity)
	assert.True(t, ok)
	assert.Equal(t, "EPSG:2193", code)
}

func TestOverridesClear(t *testing.T) {
	o := NewOverrides()
	identity := MakeIdentity("/data/points.geojson")

	o.Set(identity, "EPSG:4326")
	o.Clear(identity)

	_, ok := o.Get(identity)
	assert.False(t, ok)

	// Clearing an absent entry is a no-op, not an error.
	o.Clear(identity)
	_, ok = o.Get(identity)
	assert.False(t, ok)
}

func TestOverridesAreIndependentPerIdentity(t *testing.T) {
	o := NewOverrides()
	a := MakeIdentity("/data/a.kml")
	b := MakeIdentity("/data/b.kml")

	o.Set(a, "EPSG:2193")

	_, ok := o.Get(b)
	assert.False(t, ok)

	o.Clear(b)
	code, ok := o.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "EPSG:2193", code)
}
