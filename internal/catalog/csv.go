package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"quickride/internal/domain"
)

// Column synonyms accepted in the header row, matched case-insensitively.
var (
	zoneIDColumns = []string{"zone_id", "id"}
	townColumns   = []string{"town", "city", "place"}
	nameColumns   = []string{"zone_name", "location", "name"}
)

// LoadFile reads locations from a CSV file. The first row is a header;
// columns are matched by name so richer or sparser layouts both load.
func LoadFile(path string) ([]domain.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open location data: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads locations from CSV data.
func Parse(r io.Reader) ([]domain.Location, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var locations []domain.Location
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		field := func(names ...string) string {
			for _, n := range names {
				if i, ok := cols[n]; ok && i < len(row) {
					if v := strings.TrimSpace(row[i]); v != "" {
						return v
					}
				}
			}
			return ""
		}

		loc := domain.Location{
			ZoneID:   field(zoneIDColumns...),
			Town:     field(townColumns...),
			Name:     field(nameColumns...),
			ZoneType: field("zone_type"),
			Notes:    field("notes"),
		}

		if v := field("approx_distance_km"); v != "" {
			if km, err := strconv.ParseFloat(v, 64); err == nil {
				loc.ApproxDistanceKm = km
			}
		}

		lat, lon := field("latitude"), field("longitude")
		if lat != "" && lon != "" {
			latF, latErr := strconv.ParseFloat(lat, 64)
			lonF, lonErr := strconv.ParseFloat(lon, 64)
			if latErr == nil && lonErr == nil {
				loc.Latitude = latF
				loc.Longitude = lonF
				loc.HasGeo = true
			}
		}

		locations = append(locations, loc)
	}

	return locations, nil
}
