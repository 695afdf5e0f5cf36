package ussd

import (
	"fmt"
	"strings"

	"quickride/internal/domain"
)

// pageBounds computes the slice bounds for one page of a list and whether
// more items remain past it. Pages are 1-based.
func pageBounds(total, page, pageSize int) (start, end int, hasMore bool) {
	if page < 1 {
		page = 1
	}
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end, end < total
}

// Paginate returns one page of items and whether more pages remain.
func Paginate(items []string, page, pageSize int) ([]string, bool) {
	start, end, hasMore := pageBounds(len(items), page, pageSize)
	return items[start:end], hasMore
}

// buildMenu renders a numbered menu page. Entries are numbered 1..k from the
// page start; a "0. More" footer is appended only when items remain beyond
// this page.
func buildMenu(title string, items []string, page, pageSize int) string {
	slice, hasMore := Paginate(items, page, pageSize)

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteByte('\n')
	}
	for i, item := range slice {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	if hasMore {
		b.WriteString("0. More")
	}
	return strings.TrimSpace(b.String())
}

// buildZoneMenu renders a menu page of zones, tagging each entry with its
// zone type when present.
func buildZoneMenu(title string, zones []domain.Location, page, pageSize int) string {
	labels := make([]string, len(zones))
	for i, z := range zones {
		labels[i] = zoneLabel(z)
	}
	return buildMenu(title, labels, page, pageSize)
}

func zoneLabel(z domain.Location) string {
	if z.ZoneType != "" {
		return fmt.Sprintf("%s (%s)", z.Name, z.ZoneType)
	}
	return z.Name
}
