package models

import "strings"

type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// WeatherQuery is either name based (City, State, Country) or coordinate based.
// When Coordinates is set the name fields are ignored.
type WeatherQuery struct {
	City        string       `json:"city"`
	State       string       `json:"state,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func CityQuery(city, state, country string) WeatherQuery {
	return WeatherQuery{City: city, State: state, Country: country}
}

func CoordinatesQuery(lat, lon float64) WeatherQuery {
	return WeatherQuery{Coordinates: &Coordinates{Latitude: lat, Longitude: lon}}
}

// Trimmed returns a copy with surrounding whitespace removed from the name fields.
func (q WeatherQuery) Trimmed() WeatherQuery {
	q.City = strings.TrimSpace(q.City)
	q.State = strings.TrimSpace(q.State)
	q.Country = strings.TrimSpace(q.Country)
	return q
}

// Location is the single outcome of a location request.
type Location struct {
	Coordinates Coordinates
	OK          bool
}
