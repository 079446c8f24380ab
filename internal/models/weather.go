package models

type Condition struct {
	ID          int
	Main        string
	Description string
	Icon        string
}

type MainStats struct {
	Temp      float64
	FeelsLike float64
	TempMin   float64
	TempMax   float64
	Pressure  int
	Humidity  int
}

type Wind struct {
	Speed float64
	Deg   int
}

type Sys struct {
	Country string
	Sunrise int
	Sunset  int
}

// WeatherResponse is a decoded provider payload. Conditions always holds at least one entry.
type WeatherResponse struct {
	Coordinates Coordinates
	Conditions  []Condition
	Main        MainStats
	Wind        Wind
	Clouds      int
	Sys         Sys
	Visibility  int
	Timezone    int
	CityID      int
	CityName    string
}

// Primary returns the authoritative condition entry.
func (r WeatherResponse) Primary() Condition {
	if len(r.Conditions) == 0 {
		return Condition{}
	}
	return r.Conditions[0]
}
