package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/weather-details/internal/services/cache"
)

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) ObserveLatency(operation string, duration time.Duration) {
	m.Called(operation, duration)
}

func (m *mockCollector) IncrementCounter(metric string, labels ...string) {
	m.Called(metric, labels)
}

func TestMetricsDecorator_HitAndMiss(t *testing.T) {
	collector := new(mockCollector)
	collector.On("ObserveLatency", mock.Anything, mock.AnythingOfType("time.Duration"))
	collector.On("IncrementCounter", "icon_cache_put", []string{"stored"}).Once()
	collector.On("IncrementCounter", "icon_cache_get", []string{"hit"}).Once()
	collector.On("IncrementCounter", "icon_cache_get", []string{"miss"}).Once()
	t.Cleanup(func() {
		collector.AssertExpectations(t)
	})

	d := cache.NewMetricsDecorator(cache.NewIconCache(1024), collector)

	d.Put("10d", []byte("png"))

	got, ok := d.Get("10d")
	assert.True(t, ok)
	assert.Equal(t, []byte("png"), got)

	_, ok = d.Get("11d")
	assert.False(t, ok)
}
