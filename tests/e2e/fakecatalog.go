package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// FakeCatalog serves a minimal Spotify shaped API for e2e tests.
// Item payloads are deterministic functions of the requested id so tests can
// assert snapshot contents without fixtures.
type FakeCatalog struct {
	AuthURL string
	APIURL  string
}

func StartFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()

	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]any{"access_token": "fake-catalog-token", "expires_in": 3600})
	}))
	t.Cleanup(auth.Close)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fakeTrack(r.PathValue("id")))
	})
	mux.HandleFunc("GET /albums/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fakeAlbum(r.PathValue("id")))
	})
	mux.HandleFunc("GET /artists/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fakeArtist(r.PathValue("id")))
	})
	mux.HandleFunc("GET /browse/new-releases", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"albums": map[string]any{
				"items": []any{fakeAlbum("new-0"), fakeAlbum("new-1")},
			},
		})
	})
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit > 3 {
			limit = 3
		}

		items := make([]any, 0, limit)
		for i := range limit {
			id := r.URL.Query().Get("q") + "-" + strconv.Itoa(i)
			switch r.URL.Query().Get("type") {
			case "album":
				items = append(items, fakeAlbum(id))
			case "artist":
				items = append(items, fakeArtist(id))
			default:
				items = append(items, fakeTrack(id))
			}
		}
		writeJSON(w, map[string]any{
			r.URL.Query().Get("type") + "s": map[string]any{"items": items},
		})
	})

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fake-catalog-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)

	return &FakeCatalog{AuthURL: auth.URL, APIURL: api.URL}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func fakeArtist(id string) map[string]any {
	return map[string]any{
		"id":     id,
		"name":   "Artist " + id,
		"genres": []string{"indie"},
		"images": []map[string]any{{"url": "http://img.example.com/artist/" + id}},
	}
}

func fakeAlbum(id string) map[string]any {
	return map[string]any{
		"id":      id,
		"name":    "Album " + id,
		"artists": []map[string]any{{"name": "Artist " + id}},
		"images":  []map[string]any{{"url": "http://img.example.com/album/" + id}},
	}
}

func fakeTrack(id string) map[string]any {
	return map[string]any{
		"id":      id,
		"name":    "Track " + id,
		"artists": []map[string]any{{"name": "Artist " + id}},
		"album":   fakeAlbum(id + "-album"),
	}
}
