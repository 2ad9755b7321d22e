// Typed client for the external music catalog (Spotify shaped API).
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ccoutinho/letterfy/internal/apperrors"
	"github.com/ccoutinho/letterfy/internal/logger"
	"github.com/ccoutinho/letterfy/internal/models"
)

const (
	// DefaultCoverPath replaces missing cover art so views never render null
	DefaultCoverPath = "/images/default-music.png"

	defaultSearchLimit = 10
	maxSearchLimit     = 50

	requestTimeout = 10 * time.Second
)

type tokenSource interface {
	// Token returns a credential valid at call time
	Token(ctx context.Context) (Credential, error)

	// Refresh returns a fresh credential after rejected failed upstream
	Refresh(ctx context.Context, rejected Credential) (Credential, error)
}

// Client issues search and lookup calls against the catalog API.
// The single 401 retry policy lives here so every call site inherits it.
type Client struct {
	apiURL string
	tokens tokenSource
	client *http.Client
	logger logger.Logger
}

func NewClient(apiURL string, tokens tokenSource, l logger.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}

	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		tokens: tokens,
		client: &http.Client{},
		logger: l,
	}
}

// Search looks up catalog items of the given kind.
// Limit is defaulted and capped at 50, same as the upstream API.
func (c *Client) Search(ctx context.Context, kind models.ItemKind, query string, limit int) ([]models.CatalogItem, error) {
	if !kind.Valid() {
		return nil, apperrors.ErrUnknownItemKind
	}
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("type", string(kind))
	q.Set("limit", strconv.Itoa(limit))

	var payload searchResponse
	if err := c.get(ctx, "/search?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	return payload.items(kind), nil
}

// NewReleases lists the newest albums the catalog promotes.
// Limit is defaulted and capped at 50, same as search.
func (c *Client) NewReleases(ctx context.Context, limit int) ([]models.CatalogItem, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	var payload newReleasesResponse
	if err := c.get(ctx, "/browse/new-releases?"+q.Encode(), &payload); err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(payload.Albums.Items))
	for _, a := range payload.Albums.Items {
		items = append(items, normalizeAlbum(a))
	}
	return items, nil
}

// GetItem fetches a single catalog entity and normalizes it into a snapshot
func (c *Client) GetItem(ctx context.Context, kind models.ItemKind, id string) (models.CatalogItem, error) {
	var item models.CatalogItem

	if !kind.Valid() {
		return item, apperrors.ErrUnknownItemKind
	}
	if id == "" {
		return item, fmt.Errorf("%w: item id must not be empty", apperrors.ErrValidation)
	}

	switch kind {
	case models.ItemTrack:
		var t trackPayload
		if err := c.get(ctx, "/tracks/"+url.PathEscape(id), &t); err != nil {
			return item, err
		}
		item = normalizeTrack(t)
	case models.ItemAlbum:
		var a albumPayload
		if err := c.get(ctx, "/albums/"+url.PathEscape(id), &a); err != nil {
			return item, err
		}
		item = normalizeAlbum(a)
	case models.ItemArtist:
		var a artistPayload
		if err := c.get(ctx, "/artists/"+url.PathEscape(id), &a); err != nil {
			return item, err
		}
		item = normalizeArtist(a)
	}

	return item, nil
}

// get performs a Bearer authorized GET. A 401 forces one fresh acquisition and
// one retry of the original call; a second 401 surfaces as AuthError.
// The token is obtained immediately before each attempt, never cached here.
// Each attempt runs under its own timeout which must outlive the body read:
// cancelling the request context kills an in-flight body stream.
func (c *Client) get(ctx context.Context, path string, result any) error {
	cred, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	retried := false
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, requestTimeout)

		resp, err := c.do(attemptCtx, path, cred.AccessToken)
		if err != nil {
			cancel()
			return &UnavailableError{Err: err}
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(result)
			resp.Body.Close() // nolint:errcheck
			cancel()
			if err != nil {
				return fmt.Errorf("failed to decode catalog response: %w", err)
			}
			return nil

		case resp.StatusCode == http.StatusUnauthorized && !retried:
			// Upstream considers the credential stale even though the cache
			// believed it valid (clock skew, upstream side revocation)
			resp.Body.Close() // nolint:errcheck
			cancel()
			c.logger.Warn("catalog returned 401, forcing credential refresh", "path", path)

			cred, err = c.tokens.Refresh(ctx, cred)
			if err != nil {
				return err
			}
			retried = true

		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close() // nolint:errcheck
			cancel()
			return &AuthError{Endpoint: path}

		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close() // nolint:errcheck
			cancel()
			return &RequestError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}
	}
}

func (c *Client) do(ctx context.Context, path string, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.client.Do(req)
}

type imagePayload struct {
	URL string `json:"url"`
}

type artistPayload struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Genres []string       `json:"genres"`
	Images []imagePayload `json:"images"`
}

type albumPayload struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []artistPayload `json:"artists"`
	Images  []imagePayload  `json:"images"`
}

type trackPayload struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []artistPayload `json:"artists"`
	Album   albumPayload    `json:"album"`
}

type newReleasesResponse struct {
	Albums struct {
		Items []albumPayload `json:"items"`
	} `json:"albums"`
}

// searchResponse covers the heterogeneous shapes the search endpoint returns
// depending on the requested kind
type searchResponse struct {
	Tracks *struct {
		Items []trackPayload `json:"items"`
	} `json:"tracks"`
	Albums *struct {
		Items []albumPayload `json:"items"`
	} `json:"albums"`
	Artists *struct {
		Items []artistPayload `json:"items"`
	} `json:"artists"`
}

func (r searchResponse) items(kind models.ItemKind) []models.CatalogItem {
	var items []models.CatalogItem

	switch {
	case kind == models.ItemTrack && r.Tracks != nil:
		for _, t := range r.Tracks.Items {
			items = append(items, normalizeTrack(t))
		}
	case kind == models.ItemAlbum && r.Albums != nil:
		for _, a := range r.Albums.Items {
			items = append(items, normalizeAlbum(a))
		}
	case kind == models.ItemArtist && r.Artists != nil:
		for _, a := range r.Artists.Items {
			items = append(items, normalizeArtist(a))
		}
	}

	return items
}

func normalizeTrack(t trackPayload) models.CatalogItem {
	return models.CatalogItem{
		ID:       t.ID,
		Kind:     models.ItemTrack,
		Name:     t.Name,
		Artist:   joinArtists(t.Artists),
		CoverURL: firstImage(t.Album.Images), // tracks carry no images of their own
	}
}

func normalizeAlbum(a albumPayload) models.CatalogItem {
	return models.CatalogItem{
		ID:       a.ID,
		Kind:     models.ItemAlbum,
		Name:     a.Name,
		Artist:   joinArtists(a.Artists),
		CoverURL: firstImage(a.Images),
	}
}

func normalizeArtist(a artistPayload) models.CatalogItem {
	item := models.CatalogItem{
		ID:       a.ID,
		Kind:     models.ItemArtist,
		Name:     a.Name,
		CoverURL: firstImage(a.Images),
	}
	// artists have no artist of their own, show the leading genre instead
	if len(a.Genres) > 0 {
		item.Artist = a.Genres[0]
	}
	return item
}

func joinArtists(artists []artistPayload) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func firstImage(images []imagePayload) string {
	if len(images) == 0 || images[0].URL == "" {
		return DefaultCoverPath
	}
	return images[0].URL
}
