package handlers

import (
	"net/http"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/showcase"
)

func TestGetHome(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name             string
		tab              string
		expectedStatus   int
		expectedFeatured int
	}{
		{"default tab", "", http.StatusOK, 4},
		{"dry fruits tab", "dryfruits", http.StatusOK, 2},
		{"unknown tab", "nuts", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/home?tab="+tt.tab, "", nil)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var home service.HomeView
			decodeBody(t, w, &home)
			if len(home.Featured) != tt.expectedFeatured {
				t.Errorf("expected %d featured products, got %d", tt.expectedFeatured, len(home.Featured))
			}
			if len(home.Hero.Slides) != 3 {
				t.Errorf("expected 3 hero slides, got %d", len(home.Hero.Slides))
			}
		})
	}
}

func TestHeroNavigation(t *testing.T) {
	env := newTestEnv(t)

	steps := []struct {
		target         string
		expectedStatus int
		expectedIndex  int
	}{
		{"/api/home/hero/prev", http.StatusOK, 2},
		{"/api/home/hero/next", http.StatusOK, 0},
		{"/api/home/hero/next", http.StatusOK, 1},
		{"/api/home/hero/0", http.StatusOK, 0},
		{"/api/home/hero/7", http.StatusNotFound, 0},
		{"/api/home/hero/first", http.StatusBadRequest, 0},
	}

	for _, step := range steps {
		w := env.do(t, http.MethodPost, step.target, "", nil)
		if w.Code != step.expectedStatus {
			t.Fatalf("%s: expected status %d, got %d", step.target, step.expectedStatus, w.Code)
		}
		if step.expectedStatus != http.StatusOK {
			continue
		}

		var state showcase.CarouselState
		decodeBody(t, w, &state)
		if state.Index != step.expectedIndex {
			t.Errorf("%s: expected index %d, got %d", step.target, step.expectedIndex, state.Index)
		}
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.Create()

	w := env.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var health HealthResponse
	decodeBody(t, w, &health)
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if health.Sessions != 1 {
		t.Errorf("expected 1 session, got %d", health.Sessions)
	}
}
