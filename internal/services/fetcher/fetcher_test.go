package fetcher_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-details/internal/services/fetcher"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "White Plains", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"name":"White Plains"}`))
	}))
	t.Cleanup(srv.Close)

	c := fetcher.NewClient(srv.Client(), zerolog.Nop())

	body, err := c.Fetch(context.Background(), srv.URL+"/weather?q=White%20Plains")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"White Plains"}`, string(body))
}

func TestClient_Fetch_NonSuccessStatusReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	t.Cleanup(srv.Close)

	c := fetcher.NewClient(srv.Client(), zerolog.Nop())

	body, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "city not found")
}

func TestClient_Fetch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := fetcher.NewClient(srv.Client(), zerolog.Nop())

	body, err := c.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, fetcher.ErrEmptyResponse)
	assert.Nil(t, body)
}

func TestClient_Fetch_MalformedURL(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"relative":          "/data/2.5/weather",
		"unsupported":       "ftp://example.com/icon.png",
		"unescaped space":   "https://api.example.com/weather?q=White Plains",
		"bad escape":        "https://api.example.com/weather?q=%zz",
		"missing host":      "https:///weather",
		"control character": "https://api.example.com/\x7f",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			m := &mockHTTPClient{}
			t.Cleanup(func() {
				m.AssertNotCalled(t, "Do", mock.Anything)
			})

			c := fetcher.NewClient(m, zerolog.Nop())
			_, err := c.Fetch(context.Background(), raw)
			assert.ErrorIs(t, err, fetcher.ErrURLConstruction)
		})
	}
}

func TestClient_Fetch_TransportFailure(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: lookup api.example.com: no such host")).Once()
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := fetcher.NewClient(m, zerolog.Nop())

	_, err := c.Fetch(context.Background(), "https://api.example.com/weather?q=Lviv")
	assert.ErrorIs(t, err, fetcher.ErrTransport)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestClient_Fetch_BodyReadFailure(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(failingReader{}),
	}, nil).Once()
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := fetcher.NewClient(m, zerolog.Nop())

	_, err := c.Fetch(context.Background(), "https://api.example.com/weather?q=Lviv")
	assert.ErrorIs(t, err, fetcher.ErrTransport)
}

func TestClient_Fetch_SingleAttempt(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return strings.HasSuffix(req.URL.Path, "/10d@2x.png")
	})).Return(nil, errors.New("timeout")).Once()
	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := fetcher.NewClient(m, zerolog.Nop())

	_, err := c.Fetch(context.Background(), "https://openweathermap.org/img/wn/10d@2x.png")
	assert.ErrorIs(t, err, fetcher.ErrTransport)
	m.AssertNumberOfCalls(t, "Do", 1)
}
