// File: internal/city/city.go
package city

import "github.com/gosimple/slug"

// City is a static reference entry the location picker selects from.
type City struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func newCity(name, state, country string, lat, lon float64) City {
	return City{
		ID:        slug.Make(name),
		Name:      name,
		State:     state,
		Country:   country,
		Latitude:  lat,
		Longitude: lon,
	}
}

// cities is the hardcoded lookup table. Add more cities here as needed.
var cities = []City{
	newCity("Seattle", "WA", "USA", 47.6062, -122.3321),
	newCity("Tacoma", "WA", "USA", 47.2414, -122.4594),
	newCity("Bellevue", "WA", "USA", 47.6101, -122.2015),
	newCity("Everett", "WA", "USA", 47.9790, -122.2021),
}

// All returns the full city table in display order.
func All() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// Default returns the city the picker pre-selects.
func Default() City {
	return cities[0]
}

// ByID looks a city up by its id.
func ByID(id string) (City, bool) {
	for _, c := range cities {
		if c.ID == id {
			return c, true
		}
	}
	return City{}, false
}
