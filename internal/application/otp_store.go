package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore issues single-use, TTL-bound numeric codes keyed by email.
// Issuance overwrites any prior live code for the same email (last writer
// wins); validation is an atomic compare-and-delete (first successful
// validator wins).
type OTPStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOTPStore(rdb *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: ttl}
}

func otpKey(email string) string { return "otp:" + email }

// compare-and-delete so a code is usable exactly once even under
// concurrent validation attempts
var compareDelScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if v == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

// Issue generates a fresh 6-digit code and stores it under the email with
// the configured TTL. The code reaches the user only through the
// notification pipeline, never through the calling response.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := genOTPCode()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, otpKey(email), code, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Validate reports whether candidate matches the live code for email and
// consumes it on success. Expired, absent, and wrong codes all return
// false with no distinction.
func (s *OTPStore) Validate(ctx context.Context, email, candidate string) bool {
	res, err := compareDelScript.Run(ctx, s.rdb, []string{otpKey(email)}, candidate).Result()
	if err != nil {
		return false
	}
	n, ok := res.(int64)
	return ok && n == 1
}

// genOTPCode generates a secure random 6-digit code as a zero-padded string
func genOTPCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%06d", n%1000000), nil
}
