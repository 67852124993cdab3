package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gfontapi/internal/catalog"
	"gfontapi/internal/services"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := catalog.New("", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	} else if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := catalog.New("key", " "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("expected key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("family") != "Example Sans" {
			t.Errorf("expected family query parameter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"webfonts#webfontList","items":[{"family":"Example Sans","category":"sans-serif","subsets":["latin"],"variants":["regular","700italic"],"files":{"regular":"https://fonts.example/a.ttf","700italic":"https://fonts.example/b.ttf"}},{"family":"Other"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := catalog.New("secret", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	family, err := client.Fetch(context.Background(), "Example Sans")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if family.Name != "Example Sans" || family.Category != "sans-serif" {
		t.Fatalf("unexpected family: %#v", family)
	}
	if len(family.Files) != 2 || family.Files["700italic"] != "https://fonts.example/b.ttf" {
		t.Fatalf("unexpected files: %#v", family.Files)
	}
	keys := family.VariantKeys()
	if len(keys) != 2 || keys[0] != "700italic" || keys[1] != "regular" {
		t.Fatalf("unexpected sorted keys: %v", keys)
	}
}

func TestFetchNotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := catalog.New("secret", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Fetch(context.Background(), "Nope")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !errors.Is(err, catalog.ErrStatus) {
		t.Fatalf("expected ErrStatus, got %v", err)
	}
	if !errors.Is(err, services.ErrCatalog) {
		t.Fatalf("expected catalog marker, got %v", err)
	}
	var statusErr *catalog.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("expected StatusError with 404, got %v", err)
	}
}

func TestFetchStatusMessageIsRedacted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key secret not valid."}}`))
	}))
	t.Cleanup(server.Close)

	client, _ := catalog.New("secret", server.URL)
	_, err := client.Fetch(context.Background(), "Example Sans")
	if err == nil {
		t.Fatal("expected error for 400")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Fatalf("api key leaked into error: %v", err)
	}
	if !strings.Contains(err.Error(), "not valid") {
		t.Fatalf("expected catalog message in error, got %v", err)
	}
}

func TestFetchTransportErrorIsRedacted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, _ := catalog.New("secret", baseURL)
	_, err := client.Fetch(context.Background(), "Example Sans")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !errors.Is(err, services.ErrCatalog) {
		t.Fatalf("expected catalog marker, got %v", err)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Fatalf("api key leaked into error: %v", err)
	}
	if !strings.Contains(err.Error(), "key=REDACTED") {
		t.Fatalf("expected redacted url in error, got %v", err)
	}
}

func TestFetchRejectsEmptyResponses(t *testing.T) {
	bodies := map[string]string{
		"missing items": `{"kind":"webfonts#webfontList"}`,
		"zero items":    `{"items":[]}`,
		"invalid json":  `{"items":`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(server.Close)

			client, _ := catalog.New("secret", server.URL)
			if _, err := client.Fetch(context.Background(), "Example Sans"); err == nil {
				t.Fatal("expected error")
			} else if !errors.Is(err, services.ErrCatalog) {
				t.Fatalf("expected catalog marker, got %v", err)
			}
		})
	}
}

func TestFetchZeroItemsWrapsErrNoFamily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(server.Close)

	client, _ := catalog.New("secret", server.URL)
	if _, err := client.Fetch(context.Background(), "Example Sans"); !errors.Is(err, catalog.ErrNoFamily) {
		t.Fatalf("expected ErrNoFamily, got %v", err)
	}
}

func TestFetchEmptyFamily(t *testing.T) {
	client, err := catalog.New("secret", "https://example.com")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "  "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for empty family, got %v", err)
	}
}
