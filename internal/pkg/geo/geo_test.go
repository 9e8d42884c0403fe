package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_SamePoint(t *testing.T) {
	d := HaversineDistance(-23.5505, -46.6333, -23.5505, -46.6333)
	assert.Equal(t, 0.0, d)
}

func TestHaversineDistance_KnownDistance(t *testing.T) {
	// Sao Paulo (Se Cathedral) to Rio de Janeiro (Central do Brasil),
	// roughly 357 km apart.
	d := HaversineDistance(-23.5505, -46.6333, -22.9035, -43.2096)
	assert.InDelta(t, 357000, d, 5000)
}

func TestHaversineDistance_ShortDistance(t *testing.T) {
	// Two points ~111m apart (0.001 degrees of latitude).
	d := HaversineDistance(-23.5505, -46.6333, -23.5495, -46.6333)
	assert.InDelta(t, 111, d, 2)
}

func TestWithinRadius(t *testing.T) {
	site := Site{
		ID:           "site-1",
		Latitude:     -23.5505,
		Longitude:    -46.6333,
		RadiusMeters: 150,
	}

	t.Run("inside", func(t *testing.T) {
		dist, inside := WithinRadius(-23.5500, -46.6333, site)
		assert.True(t, inside)
		assert.Less(t, dist, 150.0)
	})

	t.Run("outside", func(t *testing.T) {
		dist, inside := WithinRadius(-23.5600, -46.6333, site)
		assert.False(t, inside)
		assert.Greater(t, dist, 150.0)
	})

	t.Run("at center", func(t *testing.T) {
		dist, inside := WithinRadius(site.Latitude, site.Longitude, site)
		assert.True(t, inside)
		assert.Equal(t, 0.0, dist)
	})
}
