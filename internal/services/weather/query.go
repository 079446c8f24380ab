package weather

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Nazarious-ucu/weather-details/internal/models"
)

const units = "imperial"

// Validate reports whether q can be sent to the provider: coordinates, a city alone,
// or city, state and country together.
func Validate(q models.WeatherQuery) bool {
	if q.Coordinates != nil {
		return true
	}

	q = q.Trimmed()
	if q.City == "" {
		return false
	}
	if q.State == "" && q.Country == "" {
		return true
	}
	return q.State != "" && q.Country != ""
}

func queryString(q models.WeatherQuery) string {
	q = q.Trimmed()
	if q.State != "" && q.Country != "" {
		return q.City + "," + q.State + "," + q.Country
	}
	return q.City
}

type Endpoints struct {
	WeatherURL string
	IconURL    string
	APIKey     string
}

func (e Endpoints) weatherURL(q models.WeatherQuery) string {
	params := url.Values{}
	params.Set("units", units)
	params.Set("appid", e.APIKey)

	if q.Coordinates != nil {
		params.Set("lat", formatFloat(q.Coordinates.Latitude))
		params.Set("lon", formatFloat(q.Coordinates.Longitude))
	} else {
		params.Set("q", queryString(q))
	}

	sep := "?"
	if strings.Contains(e.WeatherURL, "?") {
		sep = "&"
	}
	// Encode escapes a literal '+' as %2B, so every remaining '+' is a space
	return e.WeatherURL + sep + strings.ReplaceAll(params.Encode(), "+", "%20")
}

func (e Endpoints) iconURL(code string) string {
	return strings.TrimRight(e.IconURL, "/") + "/" + url.PathEscape(code) + "@2x.png"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
