package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type tokenRecorder struct {
	tokens []string
}

func (r *tokenRecorder) SetAccessToken(token string) {
	r.tokens = append(r.tokens, token)
}

func TestRefresher_FreshSessionPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected for an unexpired session")
	}))
	defer srv.Close()

	sess := &Session{AccessToken: "live", ExpiresAt: time.Now().Add(time.Hour)}
	sink := &tokenRecorder{}
	r := NewRefresher(NewClient(srv.URL, "anon"), sess, sink)

	got, err := r.Fresh(context.Background())
	if err != nil {
		t.Fatalf("Fresh failed: %v", err)
	}
	if got != sess {
		t.Error("Fresh should return the existing session unchanged")
	}
	if len(sink.tokens) != 0 {
		t.Errorf("sink received %v, want nothing", sink.tokens)
	}
}

func TestRefresher_RenewsExpiredSession(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["refresh_token"] != "r1" {
			t.Errorf("refresh_token = %q, want r1", body["refresh_token"])
		}
		json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "token2",
			RefreshToken: "r2",
			ExpiresIn:    3600,
		})
	}))
	defer srv.Close()

	sess := &Session{
		AccessToken:  "stale",
		RefreshToken: "r1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	catalogSink := &tokenRecorder{}
	storageSink := &tokenRecorder{}
	r := NewRefresher(NewClient(srv.URL, "anon"), sess, catalogSink, storageSink)

	got, err := r.Fresh(context.Background())
	if err != nil {
		t.Fatalf("Fresh failed: %v", err)
	}
	if got.AccessToken != "token2" {
		t.Errorf("AccessToken = %q, want token2", got.AccessToken)
	}
	for _, sink := range []*tokenRecorder{catalogSink, storageSink} {
		if len(sink.tokens) != 1 || sink.tokens[0] != "token2" {
			t.Errorf("sink received %v, want [token2]", sink.tokens)
		}
	}

	// The renewed token is valid for an hour; the next check-in must
	// not hit the endpoint again.
	if _, err := r.Fresh(context.Background()); err != nil {
		t.Fatalf("second Fresh failed: %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("refresh endpoint hit %d times, want 1", n)
	}
}

func TestRefresher_FailureKeepsOldSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := &Session{
		AccessToken:  "stale",
		RefreshToken: "r1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	sink := &tokenRecorder{}
	r := NewRefresher(NewClient(srv.URL, "anon"), sess, sink)

	if _, err := r.Fresh(context.Background()); err == nil {
		t.Fatal("Fresh succeeded against a failing endpoint")
	}
	if len(sink.tokens) != 0 {
		t.Errorf("sink received %v, want nothing on failure", sink.tokens)
	}
}
