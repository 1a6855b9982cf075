package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: make(map[string]int64)}
}

func (s *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitSixthRequestBlocked(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("quote", time.Hour, 5)
	handler := RateLimit(policy, store, false, nil)(okHandler())

	for i := 1; i <= 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/submit-quote-form", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i <= 5 {
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429, got %d", i, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["message"] == "" {
			t.Fatal("expected localized message in 429 body")
		}
	}
}

func TestRateLimitSeparateAddresses(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("quote", time.Hour, 1)
	handler := RateLimit(policy, store, false, nil)(okHandler())

	for _, addr := range []string{"10.0.0.1:1000", "10.0.0.2:1000"} {
		req := httptest.NewRequest(http.MethodPost, "/api/submit-quote-form", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("addr %s: expected 200, got %d", addr, rec.Code)
		}
	}
}

func TestRateLimitUsesForwardedForBehindProxy(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("quote", time.Hour, 1)
	handler := RateLimit(policy, store, true, nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/submit-quote-form", nil)
		req.RemoteAddr = "127.0.0.1:9999"
		req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected forwarded address to be counted, got %d", rec.Code)
		}
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("quote", time.Hour, 1)
	handler := RateLimit(policy, store, false, nil)(okHandler())

	// Without a trusted proxy, rotating the header must not reset the
	// counter for the same socket address.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/submit-quote-form", nil)
		req.RemoteAddr = "203.0.113.50:42000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("spoofed header bypassed the limit, got %d", rec.Code)
		}
	}
}

func TestRateLimitStoreFailurePassesThrough(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	policy := NewRateLimitPolicy("quote", time.Hour, 1)
	handler := RateLimit(policy, store, false, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/submit-quote-form", nil)
	req.RemoteAddr = "10.0.0.3:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through on store failure, got %d", rec.Code)
	}
}

func TestRateLimitDisabledPolicy(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("quote", 0, 0), newFakeRateStore(), false, nil)(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/submit-quote-form", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with disabled policy, got %d", rec.Code)
	}
}

func TestClientIPResolution(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4321"
	if ip := ClientIP(req, true); ip != "192.0.2.1" {
		t.Fatalf("expected remote host, got %q", ip)
	}

	req.Header.Set("X-Real-IP", "198.51.100.9")
	if ip := ClientIP(req, true); ip != "198.51.100.9" {
		t.Fatalf("expected real-ip header, got %q", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.20, 10.0.0.1")
	if ip := ClientIP(req, true); ip != "203.0.113.20" {
		t.Fatalf("expected first forwarded address, got %q", ip)
	}

	// Headers are attacker-controlled when no proxy fronts the service.
	if ip := ClientIP(req, false); ip != "192.0.2.1" {
		t.Fatalf("expected socket address without trusted proxy, got %q", ip)
	}
}
