// Package fare estimates a price range for a trip. Fares are quoted as
// distance-bucketed ranges, not exact amounts; distance comes from either
// zone coordinates or a static town-pair table.
package fare

import (
	"strings"

	"quickride/internal/domain"
)

const (
	// sameTownKm is the assumed distance for trips within one town.
	sameTownKm = 5.0
	// defaultPairKm is the assumed distance for town pairs missing from
	// the table.
	defaultPairKm = 10.0
)

// TierFor maps a distance to its fare range. Tiers are closed on their upper
// bound: exactly 5 km is still the first tier.
func TierFor(distanceKm float64) string {
	switch {
	case distanceKm <= 5:
		return "R25-R50"
	case distanceKm <= 10:
		return "R50-R70"
	case distanceKm <= 20:
		return "R70-R85"
	case distanceKm <= 30:
		return "R85-R100"
	default:
		return "R100+"
	}
}

// DistanceProvider computes the distance in km between a pickup and a
// drop-off zone.
type DistanceProvider interface {
	DistanceKm(pickup, drop domain.Location) float64
}

// GeoDistance measures great-circle distance between zone coordinates.
type GeoDistance struct{}

// DistanceKm returns the haversine distance between the two zones.
func (GeoDistance) DistanceKm(pickup, drop domain.Location) float64 {
	return pickup.DistanceKm(drop)
}

// TableDistance looks distances up in a symmetric town-pair table.
type TableDistance struct {
	pairs map[string]float64
}

// NewTableDistance builds a table provider. Keys are town pairs; lookups are
// case-insensitive and symmetric.
func NewTableDistance(pairs map[[2]string]float64) *TableDistance {
	t := &TableDistance{pairs: make(map[string]float64, len(pairs))}
	for pair, km := range pairs {
		t.pairs[pairKey(pair[0], pair[1])] = km
	}
	return t
}

// DefaultTownPairs is the built-in distance table for the served region.
func DefaultTownPairs() map[[2]string]float64 {
	return map[[2]string]float64{
		{"Mthatha", "Ngqeleni"}:       28,
		{"Mthatha", "Libode"}:         26,
		{"Mthatha", "Tsolo"}:          25,
		{"Mthatha", "Qumbu"}:          29,
		{"Mthatha", "Idutywa"}:        30,
		{"Idutywa", "Butterworth"}:    28,
		{"Libode", "Ngqeleni"}:        14,
		{"Libode", "Port St Johns"}:   25,
		{"Tsolo", "Qumbu"}:            18,
		{"Ngqeleni", "Port St Johns"}: 30,
	}
}

// DistanceKm returns the table distance for the towns of the two zones.
// Same-town trips default to 5 km, unknown pairs to 10 km.
func (t *TableDistance) DistanceKm(pickup, drop domain.Location) float64 {
	return t.TownDistanceKm(pickup.Town, drop.Town)
}

// TownDistanceKm is the town-pair lookup behind DistanceKm.
func (t *TableDistance) TownDistanceKm(townA, townB string) float64 {
	if strings.EqualFold(townA, townB) {
		return sameTownKm
	}
	if km, ok := t.pairs[pairKey(townA, townB)]; ok {
		return km
	}
	return defaultPairKm
}

func pairKey(a, b string) string {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Estimator picks a distance provider per trip: zone coordinates when both
// ends carry them, the town table otherwise.
type Estimator struct {
	geo   DistanceProvider
	table DistanceProvider
}

// NewEstimator creates an estimator over the given town-pair table.
func NewEstimator(table *TableDistance) *Estimator {
	return &Estimator{geo: GeoDistance{}, table: table}
}

// Estimate returns the fare range and the distance it was derived from.
func (e *Estimator) Estimate(pickup, drop domain.Location) (string, float64) {
	var km float64
	if pickup.HasCoordinates() && drop.HasCoordinates() {
		km = e.geo.DistanceKm(pickup, drop)
	} else {
		km = e.table.DistanceKm(pickup, drop)
	}
	return TierFor(km), km
}
