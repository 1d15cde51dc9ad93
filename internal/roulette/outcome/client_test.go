package outcome

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/radieske/roulette-table/internal/roulette/layout"
	spindto "github.com/radieske/roulette-table/internal/roulette/outcome/dto"
)

func TestClient_Spin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/spin" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req spindto.SpinRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(spindto.SpinResponse{RoundID: req.RoundID, WinningNumber: 23})
	}))
	defer srv.Close()

	n, err := New(srv.URL).Spin(context.Background(), "r1")
	if err != nil {
		t.Fatal(err)
	}
	if n != 23 {
		t.Errorf("Spin = %d, want 23", n)
	}
}

func TestClient_SpinErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "down", http.StatusBadGateway) }},
		{"out of range", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(spindto.SpinResponse{WinningNumber: 40})
		}},
		{"bad body", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("nope")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			if _, err := New(srv.URL).Spin(context.Background(), "r1"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRandomSource(t *testing.T) {
	a, b := NewRandomSource(42), NewRandomSource(42)
	for i := 0; i < 100; i++ {
		ia, pa := a.SpinIndex()
		ib, pb := b.SpinIndex()
		if ia != ib || pa != pb {
			t.Fatal("same seed must give same sequence")
		}
		if layout.WheelOrder[ia] != pa || pa < 0 || pa > 36 {
			t.Fatalf("pocket %d does not match index %d", pa, ia)
		}
	}
}
