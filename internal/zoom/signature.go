package zoom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
)

// Header names used by Zoom to sign webhook deliveries.
const (
	SignatureHeader = "x-zm-signature"
	TimestampHeader = "x-zm-request-timestamp"
)

const signaturePrefix = "v0="

// SignatureVerifier authenticates inbound webhook calls against the shared
// webhook secret. Zoom signs `v0:<timestamp>:<body>` with HMAC-SHA256 and
// sends the hex digest as `v0=<hex>` alongside the epoch-millisecond
// timestamp header.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier returns a verifier bound to the shared secret.
func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

// Validate reports whether the supplied headers carry a valid signature for
// the raw request body. Comparison is constant time and case insensitive:
// the supplied hex digest is decoded before the HMAC compare.
func (v *SignatureVerifier) Validate(headers http.Header, body []byte) bool {
	if v == nil || headers == nil {
		return false
	}

	timestamp := strings.TrimSpace(headers.Get(TimestampHeader))
	if timestamp == "" {
		return false
	}
	if _, err := strconv.ParseInt(timestamp, 10, 64); err != nil {
		return false
	}

	signature := strings.TrimSpace(headers.Get(SignatureHeader))
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	supplied, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		return false
	}

	return hmac.Equal(supplied, v.digest(timestamp, body))
}

// Sign returns the signature header value for a timestamp and body. The hex
// digest is uppercased to match the format Zoom documents; Validate accepts
// either case.
func (v *SignatureVerifier) Sign(timestamp int64, body []byte) string {
	digest := v.digest(strconv.FormatInt(timestamp, 10), body)
	return signaturePrefix + strings.ToUpper(hex.EncodeToString(digest))
}

func (v *SignatureVerifier) digest(timestamp string, body []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte("v0:"))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(":"))
	mac.Write(body)
	return mac.Sum(nil)
}
