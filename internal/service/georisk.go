package service

import (
	"verifai/internal/entity"

	"github.com/umahmood/haversine"
)

// GeoRiskEngine scores how far an observed location is from a claimed
// address. Band boundaries and the verified radius are policy, configured
// per deployment rather than hard-coded at call sites.
type GeoRiskEngine struct {
	// Inclusive upper bounds, in meters, for each band below very_high.
	VeryLowMeters float64
	LowMeters     float64
	MediumMeters  float64
	HighMeters    float64

	// Radius within which a submission counts as verified.
	VerifiedRadiusMeters float64

	// Band reported when no observed coordinates were supplied.
	UnknownRisk entity.RiskLevel
}

func NewGeoRiskEngine() *GeoRiskEngine {
	return &GeoRiskEngine{
		VeryLowMeters:        100,
		LowMeters:            500,
		MediumMeters:         1000,
		HighMeters:           5000,
		VerifiedRadiusMeters: 500,
		UnknownRisk:          entity.RiskVeryHigh,
	}
}

// Distance returns the great-circle distance in meters between two points.
func (e *GeoRiskEngine) Distance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := haversine.Coord{Lat: lat1, Lon: lon1}
	p2 := haversine.Coord{Lat: lat2, Lon: lon2}
	_, km := haversine.Distance(p1, p2)
	return km * 1000
}

// Classify maps a distance to a risk band. A nil distance means no observed
// coordinates were supplied and yields the configured unknown-data band.
func (e *GeoRiskEngine) Classify(distanceMeters *float64) entity.RiskLevel {
	if distanceMeters == nil {
		return e.UnknownRisk
	}
	d := *distanceMeters
	switch {
	case d <= e.VeryLowMeters:
		return entity.RiskVeryLow
	case d <= e.LowMeters:
		return entity.RiskLow
	case d <= e.MediumMeters:
		return entity.RiskMedium
	case d <= e.HighMeters:
		return entity.RiskHigh
	}
	return entity.RiskVeryHigh
}

// StateFor maps a distance to the resulting verification state.
func (e *GeoRiskEngine) StateFor(distanceMeters *float64) entity.VerificationState {
	if distanceMeters == nil {
		return entity.StateManualVerification
	}
	if *distanceMeters <= e.VerifiedRadiusMeters {
		return entity.StateVerified
	}
	return entity.StateRequiresReview
}
