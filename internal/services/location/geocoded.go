package location

import (
	"context"

	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-details/internal/models"
)

type Address struct {
	Street  string
	Number  int
	City    string
	State   string
	Country string
}

func (a Address) Empty() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.Country == ""
}

type geocodeFunc func(geocoder.Address) (geocoder.Location, error)

// GeocodedProvider resolves a configured postal address to coordinates.
// A failed lookup is reported as a denied location.
type GeocodedProvider struct {
	address Address
	geocode geocodeFunc
	logger  zerolog.Logger
}

// NewGeocodedProvider sets the package-level geocoder API key.
func NewGeocodedProvider(apiKey string, address Address, logger zerolog.Logger) *GeocodedProvider {
	geocoder.ApiKey = apiKey
	return newGeocodedProvider(address, geocoder.Geocoding, logger)
}

func newGeocodedProvider(address Address, geocode geocodeFunc, logger zerolog.Logger) *GeocodedProvider {
	return &GeocodedProvider{
		address: address,
		geocode: geocode,
		logger:  logger.With().Str("component", "GeocodedProvider").Logger(),
	}
}

// Locate geocodes in the background and delivers one outcome. The send never blocks,
// so an abandoned request does not leak the goroutine.
func (p *GeocodedProvider) Locate(ctx context.Context) <-chan models.Location {
	out := make(chan models.Location, 1)

	go func() {
		defer close(out)

		loc, err := p.geocode(geocoder.Address{
			Street:  p.address.Street,
			Number:  p.address.Number,
			City:    p.address.City,
			State:   p.address.State,
			Country: p.address.Country,
		})
		if err != nil {
			p.logger.Warn().Ctx(ctx).Err(err).
				Str("city", p.address.City).
				Msg("geocoding failed, location unavailable")
			out <- models.Location{}
			return
		}

		p.logger.Debug().Ctx(ctx).
			Float64("lat", loc.Latitude).
			Float64("lon", loc.Longitude).
			Msg("address geocoded")
		out <- models.Location{
			Coordinates: models.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude},
			OK:          true,
		}
	}()

	return out
}
