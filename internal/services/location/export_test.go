package location

import (
	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"
)

func NewGeocodedProviderWith(
	address Address,
	geocode func(geocoder.Address) (geocoder.Location, error),
	logger zerolog.Logger,
) *GeocodedProvider {
	return newGeocodedProvider(address, geocode, logger)
}
