package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/israel-nogueira/exchange-hub-sub000/config"
	"github.com/israel-nogueira/exchange-hub-sub000/exchange"
	"github.com/israel-nogueira/exchange-hub-sub000/sign"
)

type suiteClientTester struct {
	suite.Suite

	slept []time.Duration
}

func (s *suiteClientTester) SetupSuite() {
	config.NewLoggerService()
}

func (s *suiteClientTester) SetupTest() {
	s.slept = nil
}

func (s *suiteClientTester) newClient(baseURL string) *Client {
	c := New("testex", baseURL)
	c.Backoff = 10 * time.Millisecond
	c.Sleep = func(d time.Duration) { s.slept = append(s.slept, d) }

	return c
}

func (s *suiteClientTester) TestGetDecodesResponse() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("/api/time", r.URL.Path)
		w.Write([]byte(`{"server_time": 1700000000000}`))
	}))
	defer server.Close()

	var out struct {
		ServerTime int64 `json:"server_time"`
	}
	err := s.newClient(server.URL).Get(context.Background(), "/api/time", nil, &out)

	s.NoError(err)
	s.EqualValues(1700000000000, out.ServerTime)
}

func (s *suiteClientTester) TestSignerApplied() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Equal("key", r.Header.Get("X-API-KEY"))
		s.Equal("nonce-1", r.Header.Get("X-NONCE"))
		s.NotEmpty(r.Header.Get("X-SIGNATURE"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := s.newClient(server.URL)
	c.Signer = &sign.HeaderHMAC{
		Credentials: sign.Credentials{APIKey: "key", APISecret: "secret"},
		Nonce:       func() string { return "nonce-1" },
	}

	s.NoError(c.Post(context.Background(), "/orders", map[string]string{"symbol": "BTCUSDT"}, nil))
}

func (s *suiteClientTester) TestNetworkErrorRetriedWithLinearBackoff() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // every request now fails at the transport

	err := s.newClient(server.URL).Get(context.Background(), "/api/time", nil, nil)

	var netErr *exchange.NetworkError
	s.ErrorAs(err, &netErr)
	s.Equal("testex", netErr.Exchange)

	// three attempts, backoff grows linearly between them
	s.Equal([]time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, s.slept)
}

func (s *suiteClientTester) TestRateLimitNotRetried() {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	err := s.newClient(server.URL).Get(context.Background(), "/api/time", nil, nil)

	var rateErr *exchange.RateLimitError
	s.ErrorAs(err, &rateErr)
	s.Equal(7*time.Second, rateErr.RetryAfter)
	s.Equal(1, hits)
	s.Empty(s.slept)
}

func (s *suiteClientTester) TestAuthFailureNotRetried() {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := s.newClient(server.URL).Get(context.Background(), "/account", nil, nil)

	var authErr *exchange.AuthenticationError
	s.ErrorAs(err, &authErr)
	s.Equal(1, hits)
}

func (s *suiteClientTester) TestServerErrorSurfacedOnce() {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":["market.order.invalid_side"]}`))
	}))
	defer server.Close()

	err := s.newClient(server.URL).Get(context.Background(), "/orders", nil, nil)

	s.Error(err)
	s.Contains(err.Error(), "market.order.invalid_side")
	s.Equal(1, hits)
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(suiteClientTester))
}
