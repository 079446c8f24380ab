package cache

import "time"

type iconCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte)
}

type metricsCollector interface {
	ObserveLatency(operation string, duration time.Duration)
	IncrementCounter(metric string, labels ...string)
}

type MetricsDecorator struct {
	next      iconCache
	collector metricsCollector
}

func NewMetricsDecorator(next iconCache, collector metricsCollector) *MetricsDecorator {
	return &MetricsDecorator{next: next, collector: collector}
}

func (m *MetricsDecorator) Put(key string, data []byte) {
	start := time.Now()
	m.next.Put(key, data)
	m.collector.ObserveLatency("icon_cache_put", time.Since(start))
	m.collector.IncrementCounter("icon_cache_put", "stored")
}

func (m *MetricsDecorator) Get(key string) ([]byte, bool) {
	start := time.Now()
	data, ok := m.next.Get(key)
	m.collector.ObserveLatency("icon_cache_get", time.Since(start))
	if ok {
		m.collector.IncrementCounter("icon_cache_get", "hit")
	} else {
		m.collector.IncrementCounter("icon_cache_get", "miss")
	}
	return data, ok
}
