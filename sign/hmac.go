package sign

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// QueryHMAC signs the query-parameter style: a millisecond timestamp is
// appended to the query, the hex HMAC-SHA256 of the raw query concatenated
// with the body is appended as the signature parameter, and the API key
// travels in a header.
type QueryHMAC struct {
	Credentials Credentials
	KeyHeader   string
	Now         func() time.Time
}

func (s *QueryHMAC) Apply(req *http.Request, body []byte) error {
	query := req.URL.Query()
	query.Set("timestamp", strconv.FormatInt(clock(s.Now).UnixMilli(), 10))
	req.URL.RawQuery = query.Encode()

	mac := hmac.New(sha256.New, []byte(s.Credentials.APISecret))
	mac.Write([]byte(req.URL.RawQuery))
	mac.Write(body)

	req.URL.RawQuery += "&signature=" + hex.EncodeToString(mac.Sum(nil))

	header := s.KeyHeader
	if len(header) == 0 {
		header = "X-API-KEY"
	}
	req.Header.Set(header, s.Credentials.APIKey)

	return nil
}

// HeaderHMAC signs the header style: a nonce and a millisecond timestamp go
// into headers together with the hex HMAC-SHA256 of
// timestamp + nonce + method + path + body.
type HeaderHMAC struct {
	Credentials Credentials
	Now         func() time.Time
	Nonce       func() string
}

func (s *HeaderHMAC) Apply(req *http.Request, body []byte) error {
	timestamp := strconv.FormatInt(clock(s.Now).UnixMilli(), 10)

	nonce := ""
	if s.Nonce != nil {
		nonce = s.Nonce()
	} else {
		nonce = uuid.NewString()
	}

	message := timestamp + nonce + req.Method + req.URL.Path
	mac := hmac.New(sha256.New, []byte(s.Credentials.APISecret))
	mac.Write([]byte(message))
	mac.Write(body)

	req.Header.Set("X-API-KEY", s.Credentials.APIKey)
	req.Header.Set("X-NONCE", nonce)
	req.Header.Set("X-TIMESTAMP", timestamp)
	req.Header.Set("X-SIGNATURE", hex.EncodeToString(mac.Sum(nil)))

	return nil
}

// PassphraseHMAC signs the passphrase style: the base64-decoded secret keys
// an HMAC-SHA256 over timestamp + method + path + body, base64-encoded into
// the sign header. The account passphrase is itself HMAC-signed with the
// same key rather than sent in clear.
type PassphraseHMAC struct {
	Credentials Credentials
	Now         func() time.Time
}

func (s *PassphraseHMAC) Apply(req *http.Request, body []byte) error {
	secret, err := base64.StdEncoding.DecodeString(s.Credentials.APISecret)
	if err != nil {
		return fmt.Errorf("sign: decode secret: %w", err)
	}

	timestamp := strconv.FormatInt(clock(s.Now).Unix(), 10)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(timestamp + req.Method + req.URL.Path))
	mac.Write(body)

	passMac := hmac.New(sha256.New, secret)
	passMac.Write([]byte(s.Credentials.Passphrase))

	req.Header.Set("ACCESS-KEY", s.Credentials.APIKey)
	req.Header.Set("ACCESS-SIGN", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	req.Header.Set("ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("ACCESS-PASSPHRASE", base64.StdEncoding.EncodeToString(passMac.Sum(nil)))

	return nil
}

// PayloadHMAC signs the payload style: the JSON body is base64-encoded into
// a payload header and the hex HMAC-SHA384 of that payload goes into the
// signature header. The body itself must already carry the venue's nonce.
type PayloadHMAC struct {
	Credentials Credentials
}

func (s *PayloadHMAC) Apply(req *http.Request, body []byte) error {
	payload := base64.StdEncoding.EncodeToString(body)

	mac := hmac.New(sha512.New384, []byte(s.Credentials.APISecret))
	mac.Write([]byte(payload))

	req.Header.Set("X-APIKEY", s.Credentials.APIKey)
	req.Header.Set("X-PAYLOAD", payload)
	req.Header.Set("X-SIGNATURE", hex.EncodeToString(mac.Sum(nil)))

	return nil
}
