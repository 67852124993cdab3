package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gfontapi/internal/catalog"
)

// FontHost serves font payloads by URL path and records request counts.
type FontHost struct {
	Server *httptest.Server

	mu       sync.Mutex
	files    map[string][]byte
	requests map[string]int
}

// NewFontHost starts a server returning files[path] with status 200 and 404
// for anything else.
func NewFontHost(t testing.TB, files map[string][]byte) *FontHost {
	t.Helper()
	host := &FontHost{files: files, requests: make(map[string]int)}
	host.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host.mu.Lock()
		host.requests[r.URL.Path]++
		data, ok := host.files[r.URL.Path]
		host.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "font/ttf")
		_, _ = w.Write(data)
	}))
	t.Cleanup(host.Server.Close)
	return host
}

// URL returns the absolute URL for path on the host.
func (h *FontHost) URL(path string) string {
	return h.Server.URL + path
}

// Requests returns how often path was requested.
func (h *FontHost) Requests(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests[path]
}

// NewCatalogServer serves family records keyed by case-insensitive family
// name. Unknown families receive 404, and requests without apiKey receive 400.
func NewCatalogServer(t testing.TB, apiKey string, families ...catalog.Family) *httptest.Server {
	t.Helper()
	byName := make(map[string]catalog.Family, len(families))
	for _, family := range families {
		byName[strings.ToLower(family.Name)] = family
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != apiKey {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key."}}`))
			return
		}
		family, ok := byName[strings.ToLower(r.URL.Query().Get("family"))]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"kind":  "webfonts#webfontList",
			"items": []catalog.Family{family},
		})
	}))
	t.Cleanup(server.Close)
	return server
}
