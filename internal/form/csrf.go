// internal/form/csrf.go
//
// Curbside – Forms subsystem: stateless CSRF token utilities.
//
// Context
//   Every rendered form carries a hidden `csrf_token` input.  On POST the
//   token must verify before any field validation runs.  Tokens are
//   stateless so the web tier can run multiple instances with no shared
//   store:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes, preventing replay across users.
//   •  unixMicro – issue time, 8 bytes big-endian, bounding token age.
//   •  HMAC – keyed with the process secret, proving we issued the token.
//
// Workflow
//   •  GenerateToken() → fresh token for each render.
//   •  VerifyToken(tok) → constant-time check; false on any failure.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"os"
	"sync"
	"time"
)

const (
	tokenBytes   = 16 + 8 + sha256.Size // nonce + ts + sig
	tokenMaxAge  = 2 * time.Hour
	secretEnvKey = "CURBSIDE_CSRF_KEY" // 32-byte base64url key
)

var (
	secretOnce sync.Once
	secretKey  []byte
)

// GenerateToken creates a new CSRF token.  Call once per form render.
func GenerateToken() (string, error) {
	sec := fetchSecret()

	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(time.Now().UnixMicro()))

	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(ts)
	sig := mac.Sum(nil)

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, sig...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// VerifyToken reports whether tok passes the HMAC and age checks.
func VerifyToken(tok string) bool {
	sec := fetchSecret()

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:16]
	tsBytes := raw[16:24]
	sig := raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	if time.Since(issued) > tokenMaxAge || time.Until(issued) > time.Minute {
		// Older than the window, or a future timestamp beyond clock skew.
		return false
	}

	mac := hmac.New(sha256.New, sec)
	mac.Write(nonce)
	mac.Write(tsBytes)
	want := mac.Sum(nil)

	return hmac.Equal(sig, want)
}

// fetchSecret loads the process-wide CSRF secret exactly once.  Production
// sets CURBSIDE_CSRF_KEY; without it we fall back to a random key that
// resets on restart, which invalidates tokens across deploys.
func fetchSecret() []byte {
	secretOnce.Do(func() {
		if env := os.Getenv(secretEnvKey); env != "" {
			if b, err := base64.RawURLEncoding.DecodeString(env); err == nil && len(b) >= 32 {
				secretKey = b
				return
			}
		}
		secretKey = make([]byte, 32)
		_, _ = rand.Read(secretKey)
		os.Stderr.WriteString("[curbside] WARNING: CURBSIDE_CSRF_KEY not set – using random key\n")
	})
	return secretKey
}
