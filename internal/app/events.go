package app

import (
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-details/internal/models"
)

// eventLogger writes weather state changes to the service log.
type eventLogger struct {
	l zerolog.Logger
}

func newEventLogger(l zerolog.Logger) eventLogger {
	return eventLogger{l: l.With().Str("component", "WeatherEvents").Logger()}
}

func (e eventLogger) DisplayChanged(m models.DisplayModel) {
	e.l.Debug().
		Str("status", string(m.Status)).
		Str("city", m.CityName.String()).
		Str("temperature", m.Temperature.String()).
		Msg("display replaced")
}

func (e eventLogger) MessageChanged(msg string) {
	if msg == "" {
		return
	}
	e.l.Info().Str("message", msg).Msg("user message")
}

func (e eventLogger) IconReady(icon models.Icon) {
	e.l.Debug().Str("icon", icon.Code).Int("bytes", len(icon.Data)).Msg("icon ready")
}
