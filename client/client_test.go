package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorEnvelopeDecoding(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{"handler envelope", 409, `{"error":{"code":"offer_pending","message":"an offer is already pending"}}`, "offer_pending", "an offer is already pending"},
		{"middleware flat", 401, `{"error":"unauthorized"}`, "unauthorized", ""},
		{"empty body", 500, ``, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := New(ts.URL)
			err := c.do(context.Background(), http.MethodGet, "/api/listings", nil, nil, nil)
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("err=%v want *APIError", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Code != tt.wantCode || apiErr.Message != tt.wantMsg {
				t.Fatalf("got %+v", apiErr)
			}
		})
	}
}

func TestBearerAttached(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := New(ts.URL, WithTokens("acc-1", "ref-1"))
	if err := c.do(context.Background(), http.MethodGet, "/api/profile", nil, nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if got != "Bearer acc-1" {
		t.Fatalf("authorization=%q", got)
	}
}

func TestRefreshAndRetryOnce(t *testing.T) {
	refreshes := 0
	attempts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes++
		var req struct {
			Refresh string `json:"refresh"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Refresh != "ref-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"code":"invalid_refresh","message":"refresh token rejected"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access": "acc-2"})
	})
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.Header.Get("Authorization") != "Bearer acc-2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_token"}`))
			return
		}
		json.NewEncoder(w).Encode(Profile{UID: "u1", Email: "a@b.c", Nickname: "a"})
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := New(ts.URL, WithTokens("expired", "ref-1"))
	p, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.UID != "u1" {
		t.Fatalf("profile=%+v", p)
	}
	if refreshes != 1 || attempts != 2 {
		t.Fatalf("refreshes=%d attempts=%d want 1/2", refreshes, attempts)
	}
	if access, _ := c.tokens(); access != "acc-2" {
		t.Fatalf("access=%q want acc-2", access)
	}
}

func TestRefreshFailureSignsOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"invalid_refresh","message":"refresh token rejected"}}`))
	})
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_token"}`))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	signedOut := false
	c := New(ts.URL, WithTokens("expired", "stale"))
	c.OnSignOut = func() { signedOut = true }

	_, err := c.Profile(context.Background())
	if !IsAuthError(err) {
		t.Fatalf("err=%v want auth error", err)
	}
	if !signedOut {
		t.Fatalf("OnSignOut not called")
	}
	if c.Authenticated() {
		t.Fatalf("tokens not cleared")
	}
}

func TestNoRetryWithoutRefreshToken(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	}))
	defer ts.Close()

	c := New(ts.URL)
	if err := c.do(context.Background(), http.MethodGet, "/api/profile", nil, nil, nil); !IsAuthError(err) {
		t.Fatalf("err=%v want auth error", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts=%d want=1", attempts)
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"forbidden", &APIError{StatusCode: 403}, IsForbidden, true},
		{"not found", &APIError{StatusCode: 404}, IsNotFound, true},
		{"conflict", &APIError{StatusCode: 409}, IsConflict, true},
		{"auth", &APIError{StatusCode: 401}, IsAuthError, true},
		{"mismatch", &APIError{StatusCode: 404}, IsForbidden, false},
		{"plain error", context.Canceled, IsConflict, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Fatalf("got=%v want=%v", got, tt.want)
			}
		})
	}
	if ErrorCode(&APIError{Code: "already_reviewed"}) != "already_reviewed" {
		t.Fatalf("ErrorCode mismatch")
	}
	if ErrorCode(context.Canceled) != "" {
		t.Fatalf("ErrorCode on plain error should be empty")
	}
}
