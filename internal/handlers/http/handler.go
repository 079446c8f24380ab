package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-details/internal/models"
	"github.com/Nazarious-ucu/weather-details/internal/services/weather"
)

const timeoutDuration = 10 * time.Second

type weatherService interface {
	FetchByQuery(ctx context.Context, q models.WeatherQuery) (models.DisplayModel, error)
	FetchCurrentOrLast(ctx context.Context) (models.DisplayModel, error)
	RecordSuccessfulCity(ctx context.Context, m models.DisplayModel) error
	LastSuccessfulCity(ctx context.Context) (string, bool, error)
	Icon() (models.Icon, bool)
}

type iconStore interface {
	Get(key string) ([]byte, bool)
}

type lookupRecorder interface {
	RecordLookup(source, outcome string)
}

type Handler struct {
	service weatherService
	icons   iconStore
	lookups lookupRecorder
	logger  zerolog.Logger
}

func NewHandler(svc weatherService, icons iconStore, lookups lookupRecorder, logger zerolog.Logger) *Handler {
	return &Handler{
		service: svc,
		icons:   icons,
		lookups: lookups,
		logger:  logger.With().Str("component", "WeatherHandler").Logger(),
	}
}

type weatherResponse struct {
	Weather models.DisplayModel `json:"weather"`
	Message string              `json:"message,omitempty"`
	IconURL string              `json:"icon_url,omitempty"`
}

func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/weather", h.GetWeather)
	api.GET("/weather/current", h.GetCurrentWeather)
	api.GET("/weather/last", h.GetLastCity)
	api.GET("/icons/:code", h.GetIcon)
}

func (h *Handler) GetWeather(c *gin.Context) {
	q := models.CityQuery(c.Query("city"), c.Query("state"), c.Query("country"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	m, err := h.service.FetchByQuery(ctx, q)
	h.respond(ctx, c, "query", m, err)
}

func (h *Handler) GetCurrentWeather(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
	defer cancel()

	m, err := h.service.FetchCurrentOrLast(ctx)
	if err == nil && m.Failed() {
		h.lookups.RecordLookup("location", "unavailable")
		c.JSON(http.StatusNotFound, weatherResponse{Weather: m})
		return
	}
	h.respond(ctx, c, "location", m, err)
}

func (h *Handler) GetLastCity(c *gin.Context) {
	city, ok, err := h.service.LastSuccessfulCity(c.Request.Context())
	if err != nil {
		h.logger.Error().Ctx(c.Request.Context()).Err(err).Msg("failed to read last city")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read last city"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no city recorded yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"city": city})
}

func (h *Handler) GetIcon(c *gin.Context) {
	data, ok := h.icons.Get(c.Param("code"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "icon not cached"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) respond(ctx context.Context, c *gin.Context, source string, m models.DisplayModel, err error) {
	switch {
	case errors.Is(err, weather.ErrInvalidInputCombination):
		h.lookups.RecordLookup(source, "invalid_input")
		c.JSON(http.StatusBadRequest, gin.H{"error": weather.UserMessage(err)})
		return
	case errors.Is(err, weather.ErrDecode):
		h.lookups.RecordLookup(source, "not_found")
		c.JSON(http.StatusNotFound, weatherResponse{Weather: m, Message: weather.UserMessage(err)})
		return
	case err != nil:
		h.lookups.RecordLookup(source, "network_error")
		c.JSON(http.StatusBadGateway, gin.H{"error": weather.UserMessage(err)})
		return
	}

	h.lookups.RecordLookup(source, "ok")
	if rerr := h.service.RecordSuccessfulCity(ctx, m); rerr != nil {
		h.logger.Error().Ctx(ctx).Err(rerr).
			Str("city", m.CityName.String()).
			Msg("failed to record last city")
	}

	resp := weatherResponse{Weather: m}
	if icon, ok := h.service.Icon(); ok {
		resp.IconURL = "/api/icons/" + icon.Code
	}
	c.JSON(http.StatusOK, resp)
}
