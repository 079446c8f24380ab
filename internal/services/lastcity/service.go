package lastcity

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-details/internal/repository"
)

var ErrEmptyCity = errors.New("city name is empty")

type secretStore interface {
	Save(ctx context.Context, service, account, value string) error
	Fetch(ctx context.Context, service, account string) (string, error)
	Update(ctx context.Context, service, account, value string) error
}

// Service remembers the last city that produced a successful lookup.
type Service struct {
	store   secretStore
	service string
	account string
	logger  zerolog.Logger
}

func NewService(store secretStore, service, account string, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		service: service,
		account: account,
		logger:  logger.With().Str("component", "LastCityService").Logger(),
	}
}

// Record saves city. Writing the value already stored is a no-op.
func (s *Service) Record(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrEmptyCity
	}

	current, err := s.store.Fetch(ctx, s.service, s.account)
	switch {
	case errors.Is(err, repository.ErrSecretNotFound):
		s.logger.Info().Ctx(ctx).Str("city", city).Msg("saving first city")
		return s.store.Save(ctx, s.service, s.account, city)
	case err != nil:
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to read last city")
		return err
	case current == city:
		s.logger.Debug().Ctx(ctx).Str("city", city).Msg("same as last location")
		return nil
	}

	s.logger.Info().Ctx(ctx).
		Str("previous", current).
		Str("city", city).
		Msg("updating last city")
	return s.store.Update(ctx, s.service, s.account, city)
}

// Last returns the stored city; ok is false when nothing has been recorded.
func (s *Service) Last(ctx context.Context) (string, bool, error) {
	city, err := s.store.Fetch(ctx, s.service, s.account)
	if errors.Is(err, repository.ErrSecretNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("failed to read last city")
		return "", false, err
	}
	return city, true, nil
}
