package weather

import (
	"strconv"

	"github.com/Nazarious-ucu/weather-details/internal/models"
)

const degreesFahrenheit = "°F"

// BuildDisplayModel formats a decoded response. The result depends only on r.
func BuildDisplayModel(r models.WeatherResponse) models.DisplayModel {
	return models.DisplayModel{
		Status:          models.StatusOK,
		CityName:        models.Text(r.CityName),
		Temperature:     models.Text(formatFloat(r.Main.Temp) + degreesFahrenheit),
		Description:     models.Text(r.Primary().Description),
		HighTemperature: models.Text("H: " + formatFloat(r.Main.TempMax) + degreesFahrenheit),
		LowTemperature:  models.Text("L: " + formatFloat(r.Main.TempMin) + degreesFahrenheit),
		FeelsLike:       models.Text(formatFloat(r.Main.FeelsLike) + degreesFahrenheit),
		Pressure:        models.Text(strconv.Itoa(r.Main.Pressure) + " hPa"),
		Wind:            models.Text(formatFloat(r.Wind.Speed) + " miles/hr"),
	}
}
