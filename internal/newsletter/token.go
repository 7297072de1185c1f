// Package newsletter handles subscriptions and the stateless unsubscribe
// token scheme. Tokens are never stored; verification recomputes the HMAC.
package newsletter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const devUnsubscribeSecret = "dev-unsubscribe-secret"

// unsubscribeSecret resolves the signing key: the dedicated secret first,
// then the JWT secret, then a fixed development default.
func unsubscribeSecret() []byte {
	if s := os.Getenv("UNSUBSCRIBE_SECRET"); s != "" {
		return []byte(s)
	}
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte(devUnsubscribeSecret)
}

// Sign returns the hex HMAC-SHA256 of payload under the configured secret.
func Sign(payload string) string {
	mac := hmac.New(sha256.New, unsubscribeSecret())
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// unsubscribePayload lowercases the email on every path. Sign and verify
// must fold identically or valid tokens fail without explanation.
func unsubscribePayload(id int, email string) string {
	return fmt.Sprintf("%d:%s", id, strings.ToLower(email))
}

// BuildUnsubscribeURL returns an absolute URL carrying email, id and the
// token as query parameters.
func BuildUnsubscribeURL(origin, email string, id int) string {
	token := Sign(unsubscribePayload(id, email))
	q := url.Values{}
	q.Set("email", email)
	q.Set("id", strconv.Itoa(id))
	q.Set("token", token)
	return strings.TrimRight(origin, "/") + "/api/newsletter/unsubscribe?" + q.Encode()
}

// Verify recomputes the expected token and compares in constant time.
// A length mismatch is invalid, not an error.
func Verify(email string, id int, token string) bool {
	expected := Sign(unsubscribePayload(id, email))
	if len(expected) != len(token) {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(token))
}
