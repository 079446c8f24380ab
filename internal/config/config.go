package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host        string `envconfig:"WEATHER_SERVER_HOST" default:"localhost"`
	Port        string `envconfig:"WEATHER_SERVER_PORT" default:"8082"`
	ReadTimeout int    `envconfig:"WEATHER_SERVER_TIMEOUT" default:"10"`
}

func (s Server) Address() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Redis struct {
	Host   string `envconfig:"REDIS_HOST" default:"localhost"`
	Port   string `envconfig:"REDIS_PORT" default:"6379"`
	DbType int    `envconfig:"REDIS_DB_TYPE" default:"0"`
}

func (r Redis) Address() string {
	return net.JoinHostPort(r.Host, r.Port)
}

type Keychain struct {
	Service     string `envconfig:"KEYCHAIN_SERVICE" default:"com.Jason.Weather"`
	LastCityKey string `envconfig:"KEYCHAIN_LAST_CITY_KEY" default:"lastCity"`
}

// Location configures where "current location" points. Fixed coordinates win over
// an address; with neither the location is reported as unavailable.
type Location struct {
	Latitude  string `envconfig:"LOCATION_LAT"`
	Longitude string `envconfig:"LOCATION_LON"`

	Street         string `envconfig:"LOCATION_ADDRESS_STREET"`
	Number         int    `envconfig:"LOCATION_ADDRESS_NUMBER" default:"0"`
	City           string `envconfig:"LOCATION_ADDRESS_CITY"`
	State          string `envconfig:"LOCATION_ADDRESS_STATE"`
	Country        string `envconfig:"LOCATION_ADDRESS_COUNTRY"`
	GeocoderAPIKey string `envconfig:"GEOCODER_API_KEY"`
}

// Coordinates parses the fixed coordinates; ok is false when they are not configured.
func (l Location) Coordinates() (lat, lon float64, ok bool, err error) {
	if l.Latitude == "" && l.Longitude == "" {
		return 0, 0, false, nil
	}
	lat, err = strconv.ParseFloat(l.Latitude, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("LOCATION_LAT: %w", err)
	}
	lon, err = strconv.ParseFloat(l.Longitude, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("LOCATION_LON: %w", err)
	}
	return lat, lon, true, nil
}

type Config struct {
	OpenWeatherMapAPIKey string `envconfig:"OPEN_WEATHER_MAP_API_KEY" required:"true"`
	OpenWeatherMapURL    string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5/weather"`
	OpenWeatherIconURL   string `envconfig:"OPEN_WEATHER_ICON_URL" default:"https://openweathermap.org/img/wn"`

	IconCacheMaxBytes int64         `envconfig:"ICON_CACHE_MAX_BYTES" default:"104857600"`
	HTTPClientTimeout time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"0s"`

	SecretStoreDriver string `envconfig:"SECRET_STORE_DRIVER" default:"sqlite"`
	DBName            string `envconfig:"DB_NAME" default:"weather.db"`

	Server   Server
	Breaker  Breaker
	Redis    Redis
	Keychain Keychain
	Location Location

	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-details.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/weather-details-http.log"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"debug"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.OpenWeatherMapAPIKey == "" {
		return nil, errors.New("OPEN_WEATHER_MAP_API_KEY is empty")
	}
	if cfg.SecretStoreDriver != "sqlite" && cfg.SecretStoreDriver != "redis" {
		return nil, fmt.Errorf("unsupported SECRET_STORE_DRIVER %q", cfg.SecretStoreDriver)
	}
	return &cfg, nil
}
