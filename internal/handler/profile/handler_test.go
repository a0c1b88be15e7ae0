package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	profilemodel "github.com/manojpracturu/first-aid/internal/model/profile"
	"github.com/manojpracturu/first-aid/internal/store"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

func setupRouter() *chi.Mux {
	gateway := store.NewGateway(nil, newMemoryCache(), store.DefaultTierPolicy())
	handler := New(gateway)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestGetProfileNotFound(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/profile/user-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestPutThenGetProfile(t *testing.T) {
	r := setupRouter()

	payload, _ := json.Marshal(map[string]string{
		"displayName": "Asha",
		"bloodGroup":  "O+",
	})
	req := httptest.NewRequest(http.MethodPut, "/profile/user-1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/profile/user-1", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var p profilemodel.Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if p.UID != "user-1" || p.DisplayName != "Asha" || p.BloodGroup != "O+" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestPatchMergesFields(t *testing.T) {
	r := setupRouter()

	payload, _ := json.Marshal(map[string]string{"displayName": "Asha"})
	req := httptest.NewRequest(http.MethodPut, "/profile/user-1", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("seed put failed: %d", resp.Code)
	}

	payload, _ = json.Marshal(map[string]string{"mobile": "9999999999"})
	req = httptest.NewRequest(http.MethodPatch, "/profile/user-1", bytes.NewReader(payload))
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/profile/user-1", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var p profilemodel.Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if p.DisplayName != "Asha" {
		t.Fatalf("patch dropped displayName, got %+v", p)
	}
	if p.Mobile != "9999999999" {
		t.Fatalf("patch did not apply mobile, got %+v", p)
	}
}

func TestPatchWithoutFields(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPatch, "/profile/user-1", bytes.NewReader([]byte(`{}`)))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
