package sign

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type suiteSignTester struct {
	suite.Suite
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000000)
}

func (s *suiteSignTester) TestQueryHMAC() {
	signer := &QueryHMAC{
		Credentials: Credentials{APIKey: "key", APISecret: "secret"},
		Now:         fixedClock,
	}

	req := httptest.NewRequest(http.MethodGet, "https://example.com/api/v3/order?symbol=BTCUSDT", nil)
	s.Require().NoError(signer.Apply(req, nil))

	s.Equal("key", req.Header.Get("X-API-KEY"))
	s.Equal("symbol=BTCUSDT&timestamp=1700000000000"+
		"&signature=6244d11c958f45ac56733152cb3cb1831d23a2b3709b3a88b8b42a072aceb410",
		req.URL.RawQuery)
}

func (s *suiteSignTester) TestHeaderHMAC() {
	signer := &HeaderHMAC{
		Credentials: Credentials{APIKey: "key", APISecret: "secret"},
		Now:         fixedClock,
		Nonce:       func() string { return "nonce-1" },
	}

	req := httptest.NewRequest(http.MethodGet, "https://example.com/v1/account", nil)
	s.Require().NoError(signer.Apply(req, nil))

	s.Equal("key", req.Header.Get("X-API-KEY"))
	s.Equal("nonce-1", req.Header.Get("X-NONCE"))
	s.Equal("1700000000000", req.Header.Get("X-TIMESTAMP"))
	s.Equal("75908a902b8c5afee861ef95c7db8f265a276a83257d7c750523c6549c6fe0a4",
		req.Header.Get("X-SIGNATURE"))
}

func (s *suiteSignTester) TestPassphraseHMAC() {
	signer := &PassphraseHMAC{
		Credentials: Credentials{
			APIKey:     "key",
			APISecret:  "dG9wc2VjcmV0", // base64("topsecret")
			Passphrase: "phrase",
		},
		Now: fixedClock,
	}

	req := httptest.NewRequest(http.MethodPost, "https://example.com/orders", nil)
	s.Require().NoError(signer.Apply(req, []byte(`{"quantity":"1"}`)))

	s.Equal("key", req.Header.Get("ACCESS-KEY"))
	s.Equal("1700000000", req.Header.Get("ACCESS-TIMESTAMP"))
	s.Equal("Z7FJK9X8kTe1tq6SIj3uUs9Siyasn+MfcBNgi1XEGjc=", req.Header.Get("ACCESS-SIGN"))
	s.Equal("ylTAXHvwE/hdqGaVOmpgwYfQ84LtShSd5eCUWKI95fs=", req.Header.Get("ACCESS-PASSPHRASE"))
}

func (s *suiteSignTester) TestPassphraseHMACRejectsBadSecret() {
	signer := &PassphraseHMAC{
		Credentials: Credentials{APIKey: "key", APISecret: "not base64!!!"},
	}

	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	s.Error(signer.Apply(req, nil))
}

func (s *suiteSignTester) TestPayloadHMAC() {
	signer := &PayloadHMAC{
		Credentials: Credentials{APIKey: "key", APISecret: "secret"},
	}

	req := httptest.NewRequest(http.MethodPost, "https://example.com/v1/order/new", nil)
	s.Require().NoError(signer.Apply(req, []byte(`{"nonce":1700000000}`)))

	s.Equal("key", req.Header.Get("X-APIKEY"))
	s.Equal("eyJub25jZSI6MTcwMDAwMDAwMH0=", req.Header.Get("X-PAYLOAD"))
	s.Equal("b6ee7e0d6e9d1e5853b35f76891b54537cf0fdbfba054f6fb15352b50cd11079589aca802c880e61191da15955c73160",
		req.Header.Get("X-SIGNATURE"))
}

func (s *suiteSignTester) TestBearerCachesUntilExpiry() {
	calls := 0
	signer := &Bearer{
		Now: fixedClock,
		TokenFunc: func() (string, error) {
			calls++
			// exp claim in the year 3000
			return "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJleHAiOjMyNTAzNjgwMDAwfQ.x", nil
		},
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
		s.Require().NoError(signer.Apply(req, nil))
		s.Contains(req.Header.Get("Authorization"), "Bearer ey")
	}

	s.Equal(1, calls)
}

func (s *suiteSignTester) TestBearerRefreshesExpiredToken() {
	calls := 0
	signer := &Bearer{
		Now: fixedClock,
		TokenFunc: func() (string, error) {
			calls++
			// exp claim in 2001, always stale
			return "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJleHAiOjEwMDAwMDAwMDB9.x", nil
		},
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
		s.Require().NoError(signer.Apply(req, nil))
	}

	s.Equal(2, calls)
}

func (s *suiteSignTester) TestBearerWithoutSource() {
	signer := &Bearer{}

	req := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)
	s.Error(signer.Apply(req, nil))
}

func TestSignSuite(t *testing.T) {
	suite.Run(t, new(suiteSignTester))
}
