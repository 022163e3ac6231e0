package application

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*OTPStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewOTPStore(rdb, ttl), mr
}

func TestOTPIssueAndValidate(t *testing.T) {
	store, mr := newTestStore(t, 5*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "user@campus.local")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code = %q, want 6 digits", code)
	}
	if ttl := mr.TTL("otp:user@campus.local"); ttl != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", ttl)
	}

	if !store.Validate(ctx, "user@campus.local", code) {
		t.Fatal("valid code rejected")
	}
	// Single use: the same code must not validate twice.
	if store.Validate(ctx, "user@campus.local", code) {
		t.Fatal("code validated twice")
	}
}

func TestOTPWrongCodeKeepsLiveCode(t *testing.T) {
	store, _ := newTestStore(t, 5*time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "user@campus.local")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if store.Validate(ctx, "user@campus.local", "000000") && code != "000000" {
		t.Fatal("wrong code accepted")
	}
	// A failed attempt must not consume the live code.
	if !store.Validate(ctx, "user@campus.local", code) {
		t.Fatal("live code gone after failed attempt")
	}
}

func TestOTPExpires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "user@campus.local")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if store.Validate(ctx, "user@campus.local", code) {
		t.Fatal("expired code accepted")
	}
}

func TestOTPReissueOverwrites(t *testing.T) {
	store, _ := newTestStore(t, 5*time.Minute)
	ctx := context.Background()

	first, err := store.Issue(ctx, "user@campus.local")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := store.Issue(ctx, "user@campus.local")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if first != second && store.Validate(ctx, "user@campus.local", first) {
		t.Fatal("stale code still valid after reissue")
	}
	if !store.Validate(ctx, "user@campus.local", second) {
		t.Fatal("fresh code rejected")
	}
}

func TestOTPValidateUnknownEmail(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	if store.Validate(context.Background(), "nobody@campus.local", "123456") {
		t.Fatal("code accepted for email with no live code")
	}
}
