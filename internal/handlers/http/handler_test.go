package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "github.com/Nazarious-ucu/weather-details/internal/handlers/http"
	"github.com/Nazarious-ucu/weather-details/internal/models"
	"github.com/Nazarious-ucu/weather-details/internal/services/fetcher"
	"github.com/Nazarious-ucu/weather-details/internal/services/weather"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) FetchByQuery(ctx context.Context, q models.WeatherQuery) (models.DisplayModel, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(models.DisplayModel), args.Error(1)
}

func (m *mockService) FetchCurrentOrLast(ctx context.Context) (models.DisplayModel, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.DisplayModel), args.Error(1)
}

func (m *mockService) RecordSuccessfulCity(ctx context.Context, d models.DisplayModel) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockService) LastSuccessfulCity(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockService) Icon() (models.Icon, bool) {
	args := m.Called()
	return args.Get(0).(models.Icon), args.Bool(1)
}

type mapIcons map[string][]byte

func (m mapIcons) Get(key string) ([]byte, bool) {
	v, ok := m[key]
	return v, ok
}

type nopLookups struct{}

func (nopLookups) RecordLookup(string, string) {}

var austin = models.DisplayModel{
	Status:      models.StatusOK,
	CityName:    models.Text("Austin"),
	Temperature: models.Text("91.4°F"),
}

func setup(t *testing.T, svc *mockService, icons mapIcons) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Cleanup(func() {
		svc.AssertExpectations(t)
	})

	r := gin.New()
	handlers.NewHandler(svc, icons, nopLookups{}, zerolog.Nop()).Register(r)
	return r
}

func do(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetWeather_Success(t *testing.T) {
	svc := new(mockService)
	svc.On("FetchByQuery", mock.Anything, models.CityQuery("Austin", "TX", "US")).Return(austin, nil).Once()
	svc.On("RecordSuccessfulCity", mock.Anything, austin).Return(nil).Once()
	svc.On("Icon").Return(models.Icon{Code: "01d", Data: []byte("png")}, true).Once()

	w := do(setup(t, svc, nil), "/api/weather?city=Austin&state=TX&country=US")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "/api/icons/01d", body["icon_url"])
	weatherBody, ok := body["weather"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Austin", weatherBody["city_name"])
	assert.Equal(t, "NA", weatherBody["wind"])
}

func TestGetWeather_RecordFailureStillSucceeds(t *testing.T) {
	svc := new(mockService)
	svc.On("FetchByQuery", mock.Anything, mock.Anything).Return(austin, nil).Once()
	svc.On("RecordSuccessfulCity", mock.Anything, austin).Return(errors.New("locked")).Once()
	svc.On("Icon").Return(models.Icon{}, false).Once()

	w := do(setup(t, svc, nil), "/api/weather?city=Austin")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decode(t, w), "icon_url")
}

func TestGetWeather_Errors(t *testing.T) {
	cases := []struct {
		name    string
		model   models.DisplayModel
		err     error
		status  int
		message string
	}{
		{
			name:    "invalid combination",
			model:   models.FailedDisplay(),
			err:     weather.ErrInvalidInputCombination,
			status:  http.StatusBadRequest,
			message: weather.MessageInvalidCombination,
		},
		{
			name:    "network",
			model:   models.FailedDisplay(),
			err:     fmt.Errorf("%w: timeout", fetcher.ErrTransport),
			status:  http.StatusBadGateway,
			message: weather.MessageNetworkIssue,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("FetchByQuery", mock.Anything, mock.Anything).Return(tc.model, tc.err).Once()

			w := do(setup(t, svc, nil), "/api/weather?city=Austin&state=TX")

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decode(t, w)["error"])
		})
	}
}

func TestGetWeather_NotFoundReturnsPlaceholders(t *testing.T) {
	svc := new(mockService)
	svc.On("FetchByQuery", mock.Anything, mock.Anything).
		Return(models.FailedDisplay(), fmt.Errorf("%w: missing fields", weather.ErrDecode)).Once()

	w := do(setup(t, svc, nil), "/api/weather?city=Nowhere")

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, weather.MessageInvalidInput, body["message"])
	weatherBody, ok := body["weather"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NA", weatherBody["city_name"])
	assert.Equal(t, "failed", weatherBody["status"])
}

func TestGetCurrentWeather_NothingAvailable(t *testing.T) {
	svc := new(mockService)
	svc.On("FetchCurrentOrLast", mock.Anything).Return(models.FailedDisplay(), nil).Once()

	w := do(setup(t, svc, nil), "/api/weather/current")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCurrentWeather_Success(t *testing.T) {
	svc := new(mockService)
	svc.On("FetchCurrentOrLast", mock.Anything).Return(austin, nil).Once()
	svc.On("RecordSuccessfulCity", mock.Anything, austin).Return(nil).Once()
	svc.On("Icon").Return(models.Icon{}, false).Once()

	w := do(setup(t, svc, nil), "/api/weather/current")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetLastCity(t *testing.T) {
	t.Run("recorded", func(t *testing.T) {
		svc := new(mockService)
		svc.On("LastSuccessfulCity", mock.Anything).Return("Austin", true, nil).Once()

		w := do(setup(t, svc, nil), "/api/weather/last")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Austin", decode(t, w)["city"])
	})

	t.Run("nothing recorded", func(t *testing.T) {
		svc := new(mockService)
		svc.On("LastSuccessfulCity", mock.Anything).Return("", false, nil).Once()

		w := do(setup(t, svc, nil), "/api/weather/last")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(mockService)
		svc.On("LastSuccessfulCity", mock.Anything).Return("", false, errors.New("disk")).Once()

		w := do(setup(t, svc, nil), "/api/weather/last")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetIcon(t *testing.T) {
	r := setup(t, new(mockService), mapIcons{"10d": []byte("png-bytes")})

	w := do(r, "/api/icons/10d")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", w.Body.String())

	w = do(r, "/api/icons/11n")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
