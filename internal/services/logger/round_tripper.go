package logger

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

var redactedParams = []string{"appid"}

// RoundTripper logs every outbound request. Credentials in the query are masked.
type RoundTripper struct {
	Logger *zap.Logger
	Proxy  http.RoundTripper
}

func NewRoundTripper(logger *zap.Logger) *RoundTripper {
	return &RoundTripper{
		Logger: logger,
		Proxy:  http.DefaultTransport,
	}
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", redact(req.URL)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	l.Logger.Info("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", redact(req.URL)),
		zap.Int("status_code", resp.StatusCode),
		zap.String("content_type", resp.Header.Get("Content-Type")),
		zap.Int64("content_length", resp.ContentLength),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	masked := *u
	q := masked.Query()
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "xxxxx")
		}
	}
	masked.RawQuery = q.Encode()
	return masked.String()
}
