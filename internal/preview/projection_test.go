package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/champierre/mappreview/internal/settings"
)

func TestChoicesNoCustomProjections(t *testing.T) {
	assert.Equal(t, []string{"EPSG:4326", "EPSG:3857"}, Choices(nil))
}

func TestChoicesWithCustomProjection(t *testing.T) {
	custom := []settings.Projection{{EpsgCode: 2193, Definition: "+proj=tmerc"}}
	assert.Equal(t, []string{"EPSG:4326", "EPSG:3857", "EPSG:2193"}, Choices(custom))
}

func TestChoicesSkipsDuplicatesOfFixedEntries(t *testing.T) {
	custom := []settings.Projection{
		{EpsgCode: 4326},
		{EpsgCode: 3857},
		{EpsgCode: 27700, Definition: "+proj=tmerc"},
	}
	assert.Equal(t, []string{"EPSG:4326", "EPSG:3857", "EPSG:27700"}, Choices(custom))
}

func TestValidChoice(t *testing.T) {
	custom := []settings.Projection{{EpsgCode: 2193}}

	assert.True(t, ValidChoice(custom, "EPSG:4326"))
	assert.True(t, ValidChoice(custom, "EPSG:3857"))
	assert.True(t, ValidChoice(custom, "EPSG:2193"))
	assert.False(t, ValidChoice(custom, "EPSG:27700"))
	assert.False(t, ValidChoice(nil, ""))
}
