// Package sign implements the request-signing protocols of the supported
// exchanges. A Signer mutates an outgoing http.Request in place, adding the
// query parameters or headers the venue expects; the body bytes are passed
// separately because most protocols hash them.
package sign

import (
	"net/http"
	"time"
)

type Credentials struct {
	APIKey     string
	APISecret  string
	Passphrase string
}

type Signer interface {
	Apply(req *http.Request, body []byte) error
}

// clock returns now, or the injected override used by tests.
func clock(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}

	return time.Now()
}
