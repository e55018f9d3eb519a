// Package token implements the session signer: an opaque session identifier
// wrapped in an authenticated, expiring, URL-safe token. Grounded on
// original_source/api/session.py's SessionSigner, which wraps
// itsdangerous.URLSafeTimedSerializer — no equivalent third-party signer
// library appears anywhere in the example pack, so this is built directly
// on crypto/hmac + crypto/sha256 (stdlib); see DESIGN.md for the
// stdlib-only justification.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Signer wraps a process-wide secret and signs/unsigns session tokens.
type Signer struct {
	secret []byte
}

// NewSigner builds a signer from secret (loaded from SECRET_KEY or
// freshly generated at startup — see internal/config).
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// NewSessionID generates a fresh opaque random 128-bit session identifier
// via github.com/google/uuid (present in the example pack — see
// SPEC_FULL.md's domain-stack table), replacing the teacher's hand-rolled
// ID generation with a real dependency.
func NewSessionID() string {
	return uuid.NewString()
}

// Sign produces a token binding id to the current timestamp, authenticated
// with HMAC-SHA256 under the signer's secret.
func (s *Signer) Sign(id string) string {
	ts := strconv.FormatInt(now().Unix(), 10)
	payload := id + "." + ts
	mac := s.mac(payload)
	return payload + "." + base64.RawURLEncoding.EncodeToString(mac)
}

// Unsign verifies and decodes token, returning the embedded id. It returns
// ("", false) on tamper, on signer mismatch, or when the token is older
// than maxAge.
func (s *Signer) Unsign(token string, maxAge time.Duration) (string, bool) {
	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 {
		return "", false
	}
	id, tsStr, sigStr := parts[0], parts[1], parts[2]
	payload := id + "." + tsStr

	sig, err := base64.RawURLEncoding.Strict().DecodeString(sigStr)
	if err != nil {
		return "", false
	}
	expected := s.mac(payload)
	if subtle.ConstantTimeCompare(sig, expected) != 1 {
		return "", false
	}

	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return "", false
	}
	if maxAge > 0 && now().Sub(time.Unix(ts, 0)) > maxAge {
		return "", false
	}
	return id, true
}

func (s *Signer) mac(payload string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return h.Sum(nil)
}

var now = time.Now

// String is a small debug helper, never logging the secret.
func (s *Signer) String() string {
	return fmt.Sprintf("token.Signer{secret_len=%d}", len(s.secret))
}
