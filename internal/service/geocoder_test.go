package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticGeocoderKnownAddress(t *testing.T) {
	geocoder := NewStaticGeocoder(nil)

	lat, lon := geocoder.Geocode(context.Background(), "123 Main Street, Anytown, CA 12345")
	assert.Equal(t, 37.7749, lat)
	assert.Equal(t, -122.4194, lon)
}

func TestStaticGeocoderCaseInsensitive(t *testing.T) {
	geocoder := NewStaticGeocoder(nil)

	lat, lon := geocoder.Geocode(context.Background(), "  456 OAK AVENUE, Chicago, IL ")
	assert.Equal(t, 41.8781, lat)
	assert.Equal(t, -87.6298, lon)
}

func TestStaticGeocoderFallback(t *testing.T) {
	geocoder := NewStaticGeocoder(nil)

	lat, lon := geocoder.Geocode(context.Background(), "1 Nowhere Lane, Atlantis, XX 00000")
	assert.Equal(t, 40.7589, lat)
	assert.Equal(t, -73.9851, lon)
}

func TestStaticGeocoderDeterministic(t *testing.T) {
	geocoder := NewStaticGeocoder(nil)

	lat1, lon1 := geocoder.Geocode(context.Background(), "789 Elm Street, Houston, TX")
	lat2, lon2 := geocoder.Geocode(context.Background(), "789 Elm Street, Houston, TX")
	assert.Equal(t, lat1, lat2)
	assert.Equal(t, lon1, lon2)
}
