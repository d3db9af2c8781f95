package domain

import "strings"

// Location represents a warehouse or store location from the ERP.
type Location struct {
	// Code is the location code and the business key; result sets are
	// deduplicated on it.
	Code string `json:"code"`
	// Name is the display name.
	Name string `json:"name"`
	// Address is the street address, when maintained upstream.
	Address string `json:"address,omitempty"`
	// City is the city, when maintained upstream.
	City string `json:"city,omitempty"`
	// State is the state or province, when maintained upstream.
	State string `json:"state,omitempty"`
	// ZipCode is the postal code, when maintained upstream.
	ZipCode string `json:"zipCode,omitempty"`
}

// Matches reports whether the location matches a search term by
// case-insensitive substring on code or name.
func (l Location) Matches(term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(l.Code), t) ||
		strings.Contains(strings.ToLower(l.Name), t)
}

// Filter returns the locations matching the term. An empty term returns the
// full set: the directory endpoint serves the unfiltered list by policy.
func Filter(locations []Location, term string) []Location {
	if strings.TrimSpace(term) == "" {
		return locations
	}
	out := make([]Location, 0, len(locations))
	for _, l := range locations {
		if l.Matches(term) {
			out = append(out, l)
		}
	}
	return out
}

// Dedupe drops later occurrences of a location code, keeping the first.
func Dedupe(locations []Location) []Location {
	seen := make(map[string]bool, len(locations))
	out := locations[:0:0]
	for _, l := range locations {
		if seen[l.Code] {
			continue
		}
		seen[l.Code] = true
		out = append(out, l)
	}
	return out
}
