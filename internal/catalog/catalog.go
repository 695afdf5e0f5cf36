package catalog

import (
	"sort"
	"strings"
	"sync/atomic"

	"quickride/internal/domain"
)

// Catalog holds the known pickup/drop-off locations. Readers always see a
// complete snapshot: Replace swaps the whole list in one atomic store, so a
// reload never exposes partial state to a concurrent menu render.
type Catalog struct {
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	locations []domain.Location
	towns     []string // unique, sorted
}

// New creates a catalog from an already-loaded location list. The list order
// is preserved; menu indices depend on it.
func New(locations []domain.Location) *Catalog {
	c := &Catalog{}
	c.Replace(locations)
	return c
}

// Replace atomically swaps the catalog contents.
func (c *Catalog) Replace(locations []domain.Location) {
	towns := uniqueTowns(locations)
	c.snap.Store(&snapshot{locations: locations, towns: towns})
}

// All returns every location in load order.
func (c *Catalog) All() []domain.Location {
	return c.snap.Load().locations
}

// Count returns the number of loaded locations.
func (c *Catalog) Count() int {
	return len(c.snap.Load().locations)
}

// UniqueTowns returns the sorted set of town names.
func (c *Catalog) UniqueTowns() []string {
	return c.snap.Load().towns
}

// ZonesForTown returns the locations belonging to a town, case-insensitively,
// in load order.
func (c *Catalog) ZonesForTown(town string) []domain.Location {
	want := strings.ToLower(town)
	var zones []domain.Location
	for _, l := range c.snap.Load().locations {
		if strings.ToLower(l.Town) == want {
			zones = append(zones, l)
		}
	}
	return zones
}

// TownsWithinRadius returns the sorted towns that have at least one zone
// within radiusKm of the origin. When the origin has no coordinates, or no
// town qualifies, it falls back to all towns so the dialog never dead-ends.
func (c *Catalog) TownsWithinRadius(origin domain.Location, radiusKm float64) []string {
	if !origin.HasCoordinates() {
		return c.UniqueTowns()
	}

	seen := make(map[string]bool)
	for _, l := range c.snap.Load().locations {
		if !l.HasCoordinates() {
			continue
		}
		if origin.DistanceKm(l) <= radiusKm {
			seen[l.Town] = true
		}
	}
	if len(seen) == 0 {
		return c.UniqueTowns()
	}

	towns := make([]string, 0, len(seen))
	for t := range seen {
		towns = append(towns, t)
	}
	sort.Strings(towns)
	return towns
}

func uniqueTowns(locations []domain.Location) []string {
	seen := make(map[string]bool)
	for _, l := range locations {
		town := l.Town
		if town == "" {
			town = "Unknown"
		}
		seen[town] = true
	}

	towns := make([]string, 0, len(seen))
	for t := range seen {
		towns = append(towns, t)
	}
	sort.Strings(towns)
	return towns
}
