package location_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/weather-details/internal/models"
	"github.com/Nazarious-ucu/weather-details/internal/services/location"
)

func drain(ch <-chan models.Location) []models.Location {
	var got []models.Location
	for loc := range ch {
		got = append(got, loc)
	}
	return got
}

func TestStaticProvider_Granted(t *testing.T) {
	p := location.NewStaticProvider(&models.Coordinates{Latitude: 41.03, Longitude: -73.76})

	got := drain(p.Locate(context.Background()))

	assert.Equal(t, []models.Location{{
		Coordinates: models.Coordinates{Latitude: 41.03, Longitude: -73.76},
		OK:          true,
	}}, got)
}

func TestStaticProvider_Denied(t *testing.T) {
	p := location.NewStaticProvider(nil)

	got := drain(p.Locate(context.Background()))

	assert.Equal(t, []models.Location{{}}, got)
}

func TestGeocodedProvider_Resolves(t *testing.T) {
	addr := location.Address{Street: "Main St", Number: 1, City: "White Plains", State: "NY", Country: "US"}
	p := location.NewGeocodedProviderWith(addr, func(a geocoder.Address) (geocoder.Location, error) {
		assert.Equal(t, "White Plains", a.City)
		assert.Equal(t, 1, a.Number)
		return geocoder.Location{Latitude: 41.03, Longitude: -73.76}, nil
	}, zerolog.Nop())

	got := drain(p.Locate(context.Background()))

	assert.Len(t, got, 1)
	assert.True(t, got[0].OK)
	assert.Equal(t, 41.03, got[0].Coordinates.Latitude)
}

func TestGeocodedProvider_FailureIsDenial(t *testing.T) {
	p := location.NewGeocodedProviderWith(location.Address{City: "Nowhere"},
		func(geocoder.Address) (geocoder.Location, error) {
			return geocoder.Location{}, errors.New("ZERO_RESULTS")
		}, zerolog.Nop())

	got := drain(p.Locate(context.Background()))

	assert.Equal(t, []models.Location{{}}, got)
}

func TestAddress_Empty(t *testing.T) {
	assert.True(t, location.Address{}.Empty())
	assert.False(t, location.Address{City: "Lviv"}.Empty())
}
