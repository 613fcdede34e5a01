package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dpetrov/authkeeper/internal/server/auth"
)

func TestIdentityMiddleware(t *testing.T) {
	secret := []byte("mw-secret")

	valid, err := auth.GenerateToken("u-1", "alice", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	forged, err := auth.GenerateToken("u-1", "alice", []byte("other"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantAuth   bool
	}{
		{name: "valid bearer", authHeader: "Bearer " + valid, wantAuth: true},
		{name: "no header", authHeader: "", wantAuth: false},
		{name: "forged token", authHeader: "Bearer " + forged, wantAuth: false},
		{name: "wrong scheme", authHeader: "Basic abc", wantAuth: false},
		{name: "bare token without scheme", authHeader: valid, wantAuth: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var got auth.Context
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = IdentityFromRequest(r)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			identityMiddleware(secret)(next).ServeHTTP(httptest.NewRecorder(), req)

			if got.Authenticated != tt.wantAuth {
				t.Fatalf("authenticated = %v, want %v", got.Authenticated, tt.wantAuth)
			}
			if tt.wantAuth && (got.UserID != "u-1" || got.Username != "alice") {
				t.Fatalf("unexpected identity: %+v", got)
			}
		})
	}
}

func TestIdentityFromRequest_DefaultsToAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := IdentityFromRequest(req); got != auth.Anonymous() {
		t.Fatalf("expected anonymous, got %+v", got)
	}
}
