package weather

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Nazarious-ucu/weather-details/internal/models"
)

var validate = validator.New()

type rawCoord struct {
	Lon *float64 `json:"lon" validate:"required"`
	Lat *float64 `json:"lat" validate:"required"`
}

type rawCondition struct {
	ID          *int    `json:"id" validate:"required"`
	Main        *string `json:"main" validate:"required"`
	Description *string `json:"description" validate:"required"`
	Icon        *string `json:"icon" validate:"required"`
}

type rawMain struct {
	Temp      *float64 `json:"temp" validate:"required"`
	FeelsLike *float64 `json:"feels_like" validate:"required"`
	TempMin   *float64 `json:"temp_min" validate:"required"`
	TempMax   *float64 `json:"temp_max" validate:"required"`
	Pressure  *int     `json:"pressure" validate:"required"`
	Humidity  *int     `json:"humidity" validate:"required"`
}

type rawWind struct {
	Speed *float64 `json:"speed" validate:"required"`
	Deg   *int     `json:"deg" validate:"required"`
}

type rawClouds struct {
	All *int `json:"all" validate:"required"`
}

type rawSys struct {
	Country *string `json:"country" validate:"required"`
	Sunrise *int    `json:"sunrise" validate:"required"`
	Sunset  *int    `json:"sunset" validate:"required"`
}

type rawPayload struct {
	Coord      *rawCoord      `json:"coord" validate:"required"`
	Weather    []rawCondition `json:"weather" validate:"required,min=1,dive"`
	Main       *rawMain       `json:"main" validate:"required"`
	Visibility *int           `json:"visibility" validate:"required"`
	Wind       *rawWind       `json:"wind" validate:"required"`
	Clouds     *rawClouds     `json:"clouds" validate:"required"`
	Sys        *rawSys        `json:"sys" validate:"required"`
	Timezone   *int           `json:"timezone" validate:"required"`
	ID         *int           `json:"id" validate:"required"`
	Name       *string        `json:"name" validate:"required"`
}

// Decode parses a provider payload. Every field of the response shape must be present;
// the provider's "city not found" body therefore fails with ErrDecode.
func Decode(payload []byte) (models.WeatherResponse, error) {
	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.WeatherResponse{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate.Struct(raw); err != nil {
		return models.WeatherResponse{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	conditions := make([]models.Condition, 0, len(raw.Weather))
	for _, w := range raw.Weather {
		conditions = append(conditions, models.Condition{
			ID:          *w.ID,
			Main:        *w.Main,
			Description: *w.Description,
			Icon:        *w.Icon,
		})
	}

	return models.WeatherResponse{
		Coordinates: models.Coordinates{Latitude: *raw.Coord.Lat, Longitude: *raw.Coord.Lon},
		Conditions:  conditions,
		Main: models.MainStats{
			Temp:      *raw.Main.Temp,
			FeelsLike: *raw.Main.FeelsLike,
			TempMin:   *raw.Main.TempMin,
			TempMax:   *raw.Main.TempMax,
			Pressure:  *raw.Main.Pressure,
			Humidity:  *raw.Main.Humidity,
		},
		Wind:       models.Wind{Speed: *raw.Wind.Speed, Deg: *raw.Wind.Deg},
		Clouds:     *raw.Clouds.All,
		Sys:        models.Sys{Country: *raw.Sys.Country, Sunrise: *raw.Sys.Sunrise, Sunset: *raw.Sys.Sunset},
		Visibility: *raw.Visibility,
		Timezone:   *raw.Timezone,
		CityID:     *raw.ID,
		CityName:   *raw.Name,
	}, nil
}
