package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Nazarious-ucu/weather-details/internal/models"
)

var errNotAnImage = errors.New("icon payload is not an image")

type fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

type iconCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte)
}

type locator interface {
	Locate(ctx context.Context) <-chan models.Location
}

type cityStore interface {
	Record(ctx context.Context, city string) error
	Last(ctx context.Context) (string, bool, error)
}

// Observer receives state changes. Callbacks run on the fetching goroutine or on a
// background icon goroutine and must not block.
type Observer interface {
	DisplayChanged(m models.DisplayModel)
	MessageChanged(msg string)
	IconReady(icon models.Icon)
}

type iconSlot struct {
	gen  uint64
	icon *models.Icon
}

// Service turns user input or the device location into a display model.
type Service struct {
	endpoints Endpoints
	fetcher   fetcher
	icons     iconCache
	locator   locator
	cities    cityStore
	observers []Observer
	logger    zerolog.Logger

	group      singleflight.Group
	inflight   sync.WaitGroup
	generation atomic.Uint64
	display    atomic.Pointer[models.DisplayModel]
	message    atomic.Pointer[string]
	icon       atomic.Pointer[iconSlot]
}

func NewService(
	endpoints Endpoints,
	f fetcher,
	icons iconCache,
	loc locator,
	cities cityStore,
	logger zerolog.Logger,
	observers ...Observer,
) *Service {
	s := &Service{
		endpoints: endpoints,
		fetcher:   f,
		icons:     icons,
		locator:   loc,
		cities:    cities,
		observers: observers,
		logger:    logger.With().Str("component", "WeatherService").Logger(),
	}

	empty := models.DisplayModel{}
	noMessage := ""
	s.display.Store(&empty)
	s.message.Store(&noMessage)
	s.icon.Store(&iconSlot{})
	return s
}

func (s *Service) Display() models.DisplayModel {
	return *s.display.Load()
}

func (s *Service) Message() string {
	return *s.message.Load()
}

// Icon returns the image of the current display, if it has arrived.
func (s *Service) Icon() (models.Icon, bool) {
	slot := s.icon.Load()
	if slot.icon == nil {
		return models.Icon{}, false
	}
	return *slot.icon, true
}

// Wait blocks until background icon downloads finish.
func (s *Service) Wait() {
	s.inflight.Wait()
}

// FetchByQuery validates q, downloads and decodes the weather and publishes the result.
// The icon is resolved in the background.
func (s *Service) FetchByQuery(ctx context.Context, q models.WeatherQuery) (models.DisplayModel, error) {
	if !Validate(q) {
		s.logger.Warn().Ctx(ctx).
			Str("city", q.City).
			Str("state", q.State).
			Str("country", q.Country).
			Msg("invalid input combination")
		s.setMessage(ctx, MessageInvalidCombination)
		return models.FailedDisplay(), ErrInvalidInputCombination
	}

	s.logger.Debug().Ctx(ctx).Str("query", queryString(q)).Msg("fetching weather by query")
	return s.process(ctx, s.endpoints.weatherURL(q))
}

// FetchByLocation asks the locator for one outcome and fetches the weather there.
// A denied location swaps in the failed model and sets no message.
func (s *Service) FetchByLocation(ctx context.Context) (models.DisplayModel, error) {
	loc, ok := s.locate(ctx)
	if !ok {
		s.logger.Info().Ctx(ctx).Msg("location unavailable")
		failed := models.FailedDisplay()
		s.resetIcon(s.generation.Add(1))
		s.setDisplay(ctx, failed)
		return failed, ErrLocationUnavailable
	}

	q := models.CoordinatesQuery(loc.Coordinates.Latitude, loc.Coordinates.Longitude)
	s.logger.Debug().Ctx(ctx).
		Float64("lat", loc.Coordinates.Latitude).
		Float64("lon", loc.Coordinates.Longitude).
		Msg("fetching weather by location")
	return s.process(ctx, s.endpoints.weatherURL(q))
}

// FetchCurrentOrLast prefers the device location and falls back once to the last
// recorded city. With neither available the failed model is returned without error.
func (s *Service) FetchCurrentOrLast(ctx context.Context) (models.DisplayModel, error) {
	display, err := s.FetchByLocation(ctx)
	if !errors.Is(err, ErrLocationUnavailable) {
		return display, err
	}

	city, ok, err := s.LastSuccessfulCity(ctx)
	if err != nil {
		return display, err
	}
	if !ok {
		s.logger.Info().Ctx(ctx).Msg("no last city recorded")
		return display, nil
	}

	s.logger.Info().Ctx(ctx).Str("city", city).Msg("falling back to last city")
	return s.FetchByQuery(ctx, models.CityQuery(city, "", ""))
}

// RecordSuccessfulCity remembers the city of a usable model. Failed or unnamed models are ignored.
func (s *Service) RecordSuccessfulCity(ctx context.Context, m models.DisplayModel) error {
	if s.cities == nil || m.Failed() || !m.CityName.Present() || m.CityName.String() == models.NotAvailable {
		return nil
	}
	return s.cities.Record(ctx, m.CityName.String())
}

func (s *Service) LastSuccessfulCity(ctx context.Context) (string, bool, error) {
	if s.cities == nil {
		return "", false, nil
	}
	return s.cities.Last(ctx)
}

func (s *Service) process(ctx context.Context, rawURL string) (models.DisplayModel, error) {
	start := time.Now()

	payload, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		s.logger.Error().Ctx(ctx).Err(err).Msg("weather download failed")
		s.setMessage(ctx, MessageNetworkIssue)
		return models.FailedDisplay(), err
	}

	resp, err := Decode(payload)
	if err != nil {
		s.logger.Warn().Ctx(ctx).Err(err).Msg("weather payload rejected")
		failed := models.FailedDisplay()
		s.resetIcon(s.generation.Add(1))
		s.setDisplay(ctx, failed)
		s.setMessage(ctx, MessageInvalidInput)
		return failed, err
	}

	gen := s.generation.Add(1)
	s.resetIcon(gen)
	s.resolveIcon(ctx, gen, resp.Primary().Icon)

	display := BuildDisplayModel(resp)
	s.setDisplay(ctx, display)
	s.setMessage(ctx, "")

	s.logger.Info().Ctx(ctx).
		Str("city", resp.CityName).
		Dur("duration", time.Since(start)).
		Msg("weather updated")
	return display, nil
}

func (s *Service) locate(ctx context.Context) (models.Location, bool) {
	if s.locator == nil {
		return models.Location{}, false
	}

	select {
	case loc, open := <-s.locator.Locate(ctx):
		return loc, open && loc.OK
	case <-ctx.Done():
		return models.Location{}, false
	}
}

// resolveIcon publishes a cached icon at once, otherwise downloads it in the background.
// Downloads outlive ctx; concurrent misses of one code share a single request.
func (s *Service) resolveIcon(ctx context.Context, gen uint64, code string) {
	if code == "" {
		return
	}

	if data, ok := s.icons.Get(code); ok {
		s.publishIcon(ctx, gen, models.Icon{Code: code, Data: data})
		return
	}

	bg := context.WithoutCancel(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		v, err, _ := s.group.Do(code, func() (interface{}, error) {
			if data, ok := s.icons.Get(code); ok {
				return data, nil
			}
			data, err := s.fetcher.Fetch(bg, s.endpoints.iconURL(code))
			if err != nil {
				return nil, err
			}
			if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
				return nil, fmt.Errorf("%w: got %s", errNotAnImage, ct)
			}
			s.icons.Put(code, data)
			return data, nil
		})
		if err != nil {
			s.logger.Warn().Ctx(bg).Err(err).Str("icon", code).Msg("icon download failed")
			return
		}

		data, _ := v.([]byte)
		s.publishIcon(ctx, gen, models.Icon{Code: code, Data: data})
	}()
}

func (s *Service) resetIcon(gen uint64) {
	for {
		cur := s.icon.Load()
		if cur.gen > gen {
			return
		}
		if s.icon.CompareAndSwap(cur, &iconSlot{gen: gen}) {
			return
		}
	}
}

// publishIcon stores icon unless a newer fetch has replaced the display since gen.
func (s *Service) publishIcon(ctx context.Context, gen uint64, icon models.Icon) {
	for {
		cur := s.icon.Load()
		if cur.gen != gen {
			return
		}
		if s.icon.CompareAndSwap(cur, &iconSlot{gen: gen, icon: &icon}) {
			break
		}
	}
	s.notify(ctx, func(o Observer) { o.IconReady(icon) })
}

func (s *Service) setDisplay(ctx context.Context, m models.DisplayModel) {
	s.display.Store(&m)
	s.notify(ctx, func(o Observer) { o.DisplayChanged(m) })
}

func (s *Service) setMessage(ctx context.Context, msg string) {
	s.message.Store(&msg)
	s.notify(ctx, func(o Observer) { o.MessageChanged(msg) })
}

// notify drops events for callers that have gone away.
func (s *Service) notify(ctx context.Context, fn func(Observer)) {
	if ctx.Err() != nil {
		return
	}
	for _, o := range s.observers {
		fn(o)
	}
}
