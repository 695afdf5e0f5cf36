package domain

import "math"

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Location is a single pickup/drop-off point loaded from the location data
// source. Locations are immutable after load; identity is positional within
// the catalog snapshot, so menu indices stay stable for a given snapshot.
type Location struct {
	ZoneID           string  `json:"zone_id,omitempty"`
	Town             string  `json:"town"`
	Name             string  `json:"name"`
	ZoneType         string  `json:"zone_type,omitempty"`
	ApproxDistanceKm float64 `json:"approx_distance_km,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	Latitude         float64 `json:"latitude,omitempty"`
	Longitude        float64 `json:"longitude,omitempty"`
	HasGeo           bool    `json:"has_geo,omitempty"`
}

// HasCoordinates reports whether the location carries a lat/lon pair.
func (l Location) HasCoordinates() bool {
	return l.HasGeo
}

// DistanceKm returns the haversine great-circle distance to another location.
// Both locations must carry coordinates; callers check HasCoordinates first.
func (l Location) DistanceKm(o Location) float64 {
	return HaversineKm(l.Latitude, l.Longitude, o.Latitude, o.Longitude)
}

// HaversineKm computes the great-circle distance in kilometers between two
// lat/lon points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
