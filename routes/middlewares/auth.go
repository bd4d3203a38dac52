package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

var (
	AuthzInvalidSignature = "authz.invalid_signature"
	AuthzInvalidTimestamp = "authz.invalid_timestamp"
	AuthzInvalidSession   = "authz.invalid_session"
)

// maxClockSkew bounds how old a signed request may be before it is treated
// as a replay.
const maxClockSkew = 30 * time.Second

// Authenticate verifies the header-HMAC scheme produced by sign.HeaderHMAC:
// X-SIGNATURE must be the hex HMAC-SHA256 of timestamp + nonce + method +
// path + body under the shared API secret. When no API_SECRET is configured
// the private surface is open, which is the intended single-user default.
func Authenticate(c *fiber.Ctx) error {
	secret := os.Getenv("API_SECRET")
	if len(secret) == 0 {
		return c.Next()
	}

	if c.Get("X-API-KEY") != os.Getenv("API_KEY") {
		return c.Status(401).JSON(fiber.Map{
			"errors": []string{AuthzInvalidSession},
		})
	}

	timestamp := c.Get("X-TIMESTAMP")
	ms, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"errors": []string{AuthzInvalidTimestamp},
		})
	}

	age := time.Since(time.UnixMilli(ms))
	if age > maxClockSkew || age < -maxClockSkew {
		return c.Status(401).JSON(fiber.Map{
			"errors": []string{AuthzInvalidTimestamp},
		})
	}

	message := timestamp + c.Get("X-NONCE") + c.Method() + c.Path()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	mac.Write(c.Body())

	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(c.Get("X-SIGNATURE"))) {
		return c.Status(401).JSON(fiber.Map{
			"errors": []string{AuthzInvalidSignature},
		})
	}

	return c.Next()
}
