package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

type geocodeEntry struct {
	Address string
	Lat     float64
	Lon     float64
}

// StaticGeocoder resolves addresses from a fixed table. Unmatched addresses
// fall back to a default coordinate pair so scoring still proceeds; the miss
// is logged at WARN because the resulting distance is not meaningful.
// Entries are scanned in order, keeping resolution deterministic.
type StaticGeocoder struct {
	Logger *logrus.Logger

	table       []geocodeEntry
	fallbackLat float64
	fallbackLon float64
}

func NewStaticGeocoder(logger *logrus.Logger) *StaticGeocoder {
	return &StaticGeocoder{
		Logger: logger,
		table: []geocodeEntry{
			{Address: "123 broadway street, new york, ny", Lat: 40.7589, Lon: -73.9851},
			{Address: "123 main street, anytown, ca", Lat: 37.7749, Lon: -122.4194},
			{Address: "456 oak avenue, chicago, il", Lat: 41.8781, Lon: -87.6298},
			{Address: "789 elm street, houston, tx", Lat: 29.7604, Lon: -95.3698},
		},
		fallbackLat: 40.7589,
		fallbackLon: -73.9851,
	}
}

func (g *StaticGeocoder) Geocode(_ context.Context, address string) (float64, float64) {
	normalized := strings.ToLower(strings.TrimSpace(address))
	if normalized != "" {
		for _, entry := range g.table {
			if strings.Contains(normalized, entry.Address) || strings.Contains(entry.Address, normalized) {
				return entry.Lat, entry.Lon
			}
		}
	}
	if g.Logger != nil {
		g.Logger.WithField("address", address).Warn("geocoder: no match, using fallback coordinates")
	}
	return g.fallbackLat, g.fallbackLon
}
